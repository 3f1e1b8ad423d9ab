package report

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taxoscope/taxoscope/pkg/taxoscope/internalerr"
)

// IndentUnit is the number of leading spaces per tree level in the name
// column.
const IndentUnit = 2

const reportColumns = 6

// Parse reads a full report. It fails with a ParseError on the first
// malformed row; a partially read report is never returned.
func Parse(r io.Reader) (*Report, error) {
	var rep Report
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	row := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := parseRow(text, line)
		if err != nil {
			return nil, err
		}

		switch row {
		case 0:
			rep.Totals.Unclassified = rec.ReadsCum
			rep.Totals.PercentUnclassified = rec.Percent
		case 1:
			rep.Totals.Classified = rec.ReadsCum
			rep.Totals.PercentClassified = rec.Percent
			rec.Depth = 0
			rep.Records = append(rep.Records, rec)
		default:
			rep.Records = append(rep.Records, rec)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if row == 0 {
		return nil, internalerr.NewParseError(1, "empty report")
	}
	if row < 2 {
		return nil, internalerr.NewParseError(line, "truncated report: reserved summary rows missing")
	}

	rep.Totals.Total = rep.Totals.Classified + rep.Totals.Unclassified
	return &rep, nil
}

// ParseFile parses the report at path.
func ParseFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseRow(text string, line int) (TaxonRecord, error) {
	var rec TaxonRecord

	fields := strings.SplitN(text, "\t", reportColumns)
	if len(fields) < reportColumns {
		return rec, internalerr.NewParseError(line, "expected %d tab-separated columns, got %d", reportColumns, len(fields))
	}

	percent, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return rec, internalerr.NewParseError(line, "percent %q is not numeric", fields[0])
	}
	cum, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return rec, internalerr.NewParseError(line, "cumulative reads %q is not an integer", fields[1])
	}
	assigned, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return rec, internalerr.NewParseError(line, "assigned reads %q is not an integer", fields[2])
	}
	if cum < 0 || assigned < 0 {
		return rec, internalerr.NewParseError(line, "negative read count")
	}

	code := strings.TrimSpace(fields[3])
	rank, err := ParseRank(code)
	if err != nil {
		return rec, internalerr.NewParseError(line, "%v", err)
	}

	taxID, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil {
		return rec, internalerr.NewParseError(line, "tax id %q is not an integer", fields[4])
	}

	name := fields[5]
	indent := len(name) - len(strings.TrimLeft(name, " "))

	rec = TaxonRecord{
		Percent:       percent,
		ReadsCum:      cum,
		ReadsAssigned: assigned,
		Code:          code,
		Rank:          rank,
		TaxID:         taxID,
		Name:          strings.TrimSpace(name),
		Depth:         indent / IndentUnit,
	}
	return rec, nil
}
