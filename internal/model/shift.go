package model

type Shift struct {
	ID           string `json:"id"`
	MissionID    string `json:"mission_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxCapacity  int    `json:"max_capacity"`
	CurrentCount int    `json:"current_count"`
	Status       string `json:"status"`
}

type CreateShiftRequest struct {
	MissionID   string `json:"mission_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxCapacity int    `json:"max_capacity"`
}

type CreateShiftResponse struct {
	ID string `json:"id"`
}

type LockShiftRequest struct {
	ID string `json:"id"`
}

type LockShiftResponse struct{}

type GetShiftRequest struct {
	ID string `json:"id" form:"id"`
}

type GetShiftResponse struct {
	Shift
}

type GetShiftsRequest struct {
	MissionID string `json:"mission_id" form:"mission_id"`
}

type GetShiftsResponse struct {
	Shifts []Shift `json:"shifts"`
}
