package dto

// BroadcastFrame is the internal bus payload between the command
// pipeline and the websocket fan-out worker.
type BroadcastFrame struct {
	Kind    string                 `json:"kind"` // "state" or "alert"
	Systems map[string]int         `json:"systems,omitempty"`
	Alert   string                 `json:"alert,omitempty"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}
