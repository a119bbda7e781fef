package domain

import (
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
)

func convertUser(user *entity.User) model.User {
	return model.User{
		ID:            user.ID,
		Name:          user.Name,
		Role:          string(user.Role),
		TotalPoints:   user.TotalPoints,
		MonthlyPoints: user.MonthlyPoints,
	}
}

func convertMission(mission *entity.Mission) model.Mission {
	return model.Mission{
		ID:          mission.ID,
		Title:       mission.Title,
		Description: mission.Description,
		Type:        string(mission.Type),
		Status:      string(mission.Status),
		CreatedBy:   mission.CreatedBy,
		CreatedAt:   mission.CreatedAt.Format(time.RFC3339),
	}
}

func convertShift(shift *entity.Shift) model.Shift {
	return model.Shift{
		ID:           shift.ID,
		MissionID:    shift.MissionID,
		StartTime:    shift.StartTime.Format(time.RFC3339),
		EndTime:      shift.EndTime.Format(time.RFC3339),
		MaxCapacity:  shift.MaxCapacity,
		CurrentCount: shift.CurrentCount,
		Status:       string(shift.Status),
	}
}

func convertParticipation(p *entity.ParticipationRequest) model.Participation {
	result := model.Participation{
		ID:          p.ID,
		VolunteerID: p.VolunteerID,
		ShiftID:     p.ShiftID,
		Status:      string(p.Status),
		Notes:       p.Notes,
		Attended:    p.Attended,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}

	if p.DecidedBy.Valid {
		result.DecidedBy = p.DecidedBy.String
	}

	if p.DecidedAt.Valid {
		result.DecidedAt = p.DecidedAt.Time.Format(time.RFC3339)
	}

	if p.ActualHours.Valid {
		result.ActualHours = p.ActualHours.Float64
	}

	return result
}

func convertPointEntry(p *entity.VolunteerPoint) model.PointEntry {
	result := model.PointEntry{
		ID:          p.ID,
		Points:      p.Points,
		Reason:      string(p.Reason),
		Description: p.Description,
		SourceKind:  string(p.SourceKind),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}

	if p.SourceID.Valid {
		result.SourceID = p.SourceID.String
	}

	return result
}

func convertYearlyStat(s *entity.VolunteerYearlyStat) model.YearlyStat {
	return model.YearlyStat{
		VolunteerID:   s.VolunteerID,
		Year:          s.Year,
		TotalShifts:   int64(s.TotalShifts),
		TotalHours:    s.TotalHours,
		TotalPoints:   s.TotalPoints,
		WeekendShifts: int64(s.WeekendShifts),
		NightShifts:   int64(s.NightShifts),
		MedicalShifts: int64(s.MedicalShifts),
		BestStreak:    int64(s.BestStreak),
		FinalRank:     int64(s.FinalRank),
	}
}

func convertAchievement(a *entity.Achievement) model.Achievement {
	return model.Achievement{
		ID:           a.ID,
		Code:         a.Code,
		Category:     string(a.Category),
		Threshold:    a.Threshold,
		PointsReward: a.PointsReward,
	}
}
