package model

type Mission struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type CreateMissionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type CreateMissionResponse struct {
	ID string `json:"id"`
}

type PublishMissionRequest struct {
	ID string `json:"id"`
}

type PublishMissionResponse struct{}

type CancelMissionRequest struct {
	ID string `json:"id"`
}

type CancelMissionResponse struct {
	CanceledShifts         int64 `json:"canceled_shifts"`
	CanceledParticipations int64 `json:"canceled_participations"`
}

type GetMissionRequest struct {
	ID string `json:"id" form:"id"`
}

type GetMissionResponse struct {
	Mission
	Shifts []Shift `json:"shifts"`
}

type GetMissionsRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetMissionsResponse struct {
	Missions []Mission `json:"missions"`
}
