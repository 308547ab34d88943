package dto

type RegisterRequest struct {
	UserID string `json:"user_id" validate:"required,min=1,max=64"`
	Name   string `json:"name" validate:"required,min=2,max=64"`
}

type CrewProfileResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Rank         string `json:"rank"`
	RankLevel    int    `json:"rank_level"`
	Permissions  string `json:"permissions"`
	MissionStage int    `json:"mission_stage"`
	Location     string `json:"location"`
	XP           int    `json:"xp"`
}

type LocationUpdateRequest struct {
	UserID string `json:"user_id" validate:"required,min=1,max=64"`
	// Token is a base64 wrapped location name, typically scanned from a
	// QR plaque mounted in the physical room.
	Token string `json:"token" validate:"required"`
}

type LocationUpdateResponse struct {
	UserID   string `json:"user_id"`
	Location string `json:"location"`
}

type LeaderboardEntryResponse struct {
	Name string `json:"name"`
	Rank string `json:"rank"`
	XP   int    `json:"xp"`
}
