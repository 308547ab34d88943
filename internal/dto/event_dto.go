package dto

type RadiationClearedRequest struct {
	UserID string `json:"user_id" validate:"required,min=1,max=64"`
}

type RadiationStatusResponse struct {
	Active bool `json:"active"`
}
