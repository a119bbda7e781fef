package model

type PointEntry struct {
	ID          string `json:"id"`
	Points      int64  `json:"points"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	SourceKind  string `json:"source_kind"`
	SourceID    string `json:"source_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type GetPointHistoryRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
	Offset      int    `json:"offset" form:"offset"`
	Limit       int    `json:"limit" form:"limit"`
}

type GetPointHistoryResponse struct {
	Entries []PointEntry `json:"entries"`
}

type GetBalanceRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
}

type GetBalanceResponse struct {
	TotalPoints   int64 `json:"total_points"`
	MonthlyPoints int64 `json:"monthly_points"`
}
