package model

type LeaderboardEntry struct {
	VolunteerID      string `json:"volunteer_id"`
	Name             string `json:"name"`
	Points           int64  `json:"points"`
	Rank             uint64 `json:"rank"`
	AchievementCount int64  `json:"achievement_count"`
}

type GetLeaderboardRequest struct {
	Period string `json:"period" form:"period"`
	Month  string `json:"month" form:"month"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type GetRankRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
	Period      string `json:"period" form:"period"`
	Month       string `json:"month" form:"month"`
}

type GetRankResponse struct {
	Rank   uint64 `json:"rank"`
	Points int64  `json:"points"`
}

type YearlyStat struct {
	VolunteerID   string  `json:"volunteer_id"`
	Year          int     `json:"year"`
	TotalShifts   int64   `json:"total_shifts"`
	TotalHours    float64 `json:"total_hours"`
	TotalPoints   int64   `json:"total_points"`
	WeekendShifts int64   `json:"weekend_shifts"`
	NightShifts   int64   `json:"night_shifts"`
	MedicalShifts int64   `json:"medical_shifts"`
	BestStreak    int64   `json:"best_streak"`
	FinalRank     int64   `json:"final_rank"`
}

type GetYearlyStatRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
	Year        int    `json:"year" form:"year"`
}

type GetYearlyStatResponse struct {
	YearlyStat
}

type GetYearlyStatsRequest struct {
	Year int `json:"year" form:"year"`
}

type GetYearlyStatsResponse struct {
	Stats []YearlyStat `json:"stats"`
}
