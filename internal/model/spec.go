package model

// Encoding maps visual channels to data fields. A nil entry means the
// channel is unused. No two channels may reference the same field within
// one spec; spec generators enforce this.
type Encoding struct {
	X      string `json:"x,omitempty"`
	Y      string `json:"y,omitempty"`
	Y2     string `json:"y2,omitempty"`
	Color  string `json:"color,omitempty"`
	Size   string `json:"size,omitempty"`
	Detail string `json:"detail,omitempty"`
	Row    string `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
	Theta  string `json:"theta,omitempty"`
}

// Fields returns the non-empty channel assignments keyed by channel name.
func (e Encoding) Fields() map[string]string {
	out := make(map[string]string)
	set := func(channel, field string) {
		if field != "" {
			out[channel] = field
		}
	}
	set("x", e.X)
	set("y", e.Y)
	set("y2", e.Y2)
	set("color", e.Color)
	set("size", e.Size)
	set("detail", e.Detail)
	set("row", e.Row)
	set("column", e.Column)
	set("theta", e.Theta)
	return out
}

// VisualizationSpec is the selector's output contract: a declarative chart
// description consumed by the HTML rendering layer. The selector never
// retains a reference after returning it; downstream refinement deep-copies
// before patching.
type VisualizationSpec struct {
	Pattern  string         `json:"pattern"`
	Title    string         `json:"title"`
	Data     []Row          `json:"data"`
	Encoding Encoding       `json:"encoding"`
	Config   map[string]any `json:"config,omitempty"`
}
