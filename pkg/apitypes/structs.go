package apitypes

// Shared panel API response structs used by both handlers and clients.

type ApiError struct {
	Error   string `json:"error"`
	Warning string `json:"warning,omitempty"`
}

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type Control struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Value   any    `json:"value,omitempty"`
	Enabled bool   `json:"enabled"`
	Group   string `json:"group,omitempty"`
	Visible bool   `json:"visible"`
}

type StatusResponse struct {
	Session      string    `json:"session"`
	Hydrated     bool      `json:"hydrated"`
	Controls     []Control `json:"controls"`
	HiddenGroups []string  `json:"hiddenGroups"`
}

type SetResponse struct {
	Control      string   `json:"control"`
	Value        any      `json:"value,omitempty"`
	Encoded      string   `json:"encoded"`
	HiddenGroups []string `json:"hiddenGroups"`
	Disabled     []string `json:"disabled"`
}

type DragResponse struct {
	Code uint16  `json:"code"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
}

type MediaResponse struct {
	Capture string `json:"capture"`
	Stream  string `json:"stream"`
}
