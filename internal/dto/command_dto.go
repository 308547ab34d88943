package dto

type CommandRequest struct {
	Text   string `json:"text" validate:"required,min=1"`
	UserID string `json:"user_id" validate:"required,min=1,max=64"`
}

type CommandResponse struct {
	Updates          map[string]int `json:"updates"`
	Response         string         `json:"response"`
	MissionSuccess   bool           `json:"mission_success,omitempty"`
	RankUp           string         `json:"rank_up,omitempty"`
	Alert            string         `json:"alert,omitempty"`
	RequiredLocation string         `json:"required_location,omitempty"`
}

type StatusResponse struct {
	Systems       map[string]int `json:"systems"`
	RadiationLeak bool           `json:"radiation_leak"`
}
