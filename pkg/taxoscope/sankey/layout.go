package sankey

import "github.com/taxoscope/taxoscope/pkg/taxoscope/hierarchy"

// Links holds the four parallel edge arrays of a Sankey trace. Source and
// Target index into the label list.
type Links struct {
	Source []int    `json:"source"`
	Target []int    `json:"target"`
	Value  []int64  `json:"value"`
	Label  []string `json:"label"`
}

// Data is the external Sankey shape consumed by the rendering collaborator.
type Data struct {
	Labels []string `json:"labels"`
	Links  Links    `json:"links"`
	Pad    int      `json:"pad"`
}

// Format projects a grid into the external shape. Edge node ids are mapped
// to their dense label positions; the pad constant passes through
// unchanged. No filtering happens here.
func Format(t *hierarchy.Tree, grid Grid, pad int) Data {
	d := Data{
		Labels: grid.Labels,
		Links: Links{
			Source: make([]int, 0, len(grid.Edges)),
			Target: make([]int, 0, len(grid.Edges)),
			Value:  make([]int64, 0, len(grid.Edges)),
			Label:  make([]string, 0, len(grid.Edges)),
		},
		Pad: pad,
	}
	if d.Labels == nil {
		d.Labels = []string{}
	}
	for _, e := range grid.Edges {
		src, ok := t.Pos(e.Source)
		if !ok {
			continue
		}
		dst, ok := t.Pos(e.Target)
		if !ok {
			continue
		}
		d.Links.Source = append(d.Links.Source, src)
		d.Links.Target = append(d.Links.Target, dst)
		d.Links.Value = append(d.Links.Value, e.Weight)
		d.Links.Label = append(d.Links.Label, e.Label)
	}
	return d
}

// Placeholder returns a structurally valid empty Data so consumers can
// render a "no data" state.
func Placeholder(pad int) Data {
	return Data{
		Labels: []string{},
		Links: Links{
			Source: []int{},
			Target: []int{},
			Value:  []int64{},
			Label:  []string{},
		},
		Pad: pad,
	}
}
