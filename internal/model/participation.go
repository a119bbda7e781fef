package model

type Participation struct {
	ID          string  `json:"id"`
	VolunteerID string  `json:"volunteer_id"`
	ShiftID     string  `json:"shift_id"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	DecidedBy   string  `json:"decided_by,omitempty"`
	DecidedAt   string  `json:"decided_at,omitempty"`
	Attended    bool    `json:"attended"`
	ActualHours float64 `json:"actual_hours,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type ApplyRequest struct {
	ShiftID string `json:"shift_id"`
	Notes   string `json:"notes"`
}

type ApplyResponse struct {
	ID string `json:"id"`
}

type ApproveParticipationRequest struct {
	ID string `json:"id"`
}

type ApproveParticipationResponse struct {
	ShiftFull bool `json:"shift_full"`
}

type RejectParticipationRequest struct {
	ID    string `json:"id"`
	Notes string `json:"notes"`
}

type RejectParticipationResponse struct{}

type CancelParticipationRequest struct {
	ID string `json:"id"`
}

type CancelParticipationResponse struct{}

type ConfirmAttendanceRequest struct {
	ID              string  `json:"id"`
	Attended        bool    `json:"attended"`
	ActualHours     float64 `json:"actual_hours"`
	ActualStartTime string  `json:"actual_start_time"`
	ActualEndTime   string  `json:"actual_end_time"`
}

type ConfirmAttendanceResponse struct{}

type GetParticipationRequest struct {
	ID string `json:"id" form:"id"`
}

type GetParticipationResponse struct {
	Participation
}

type GetParticipationsRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
	ShiftID     string `json:"shift_id" form:"shift_id"`
	MissionID   string `json:"mission_id" form:"mission_id"`
	Status      string `json:"status" form:"status"`
	Offset      int    `json:"offset" form:"offset"`
	Limit       int    `json:"limit" form:"limit"`
}

type GetParticipationsResponse struct {
	Participations []Participation `json:"participations"`
}
