package model

type Achievement struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Category     string `json:"category"`
	Threshold    int64  `json:"threshold"`
	PointsReward int64  `json:"points_reward"`
}

type EarnedAchievement struct {
	Achievement
	EarnedAt string `json:"earned_at"`
}

type AchievementProgress struct {
	Achievement
	Current int64 `json:"current"`
	Target  int64 `json:"target"`
	Earned  bool  `json:"earned"`
}

type GetAchievementsRequest struct{}

type GetAchievementsResponse struct {
	Achievements []Achievement `json:"achievements"`
}

type GetEarnedAchievementsRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
}

type GetEarnedAchievementsResponse struct {
	Achievements []EarnedAchievement `json:"achievements"`
}

type GetAchievementProgressRequest struct {
	VolunteerID string `json:"volunteer_id" form:"volunteer_id"`
}

type GetAchievementProgressResponse struct {
	Progress []AchievementProgress `json:"progress"`
}
