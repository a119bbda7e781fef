package achieve

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/client"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"github.com/google/uuid"
)

// Progress is the counter of one achievement next to its unlock threshold.
type Progress struct {
	Achievement entity.Achievement
	Current     int64
	Earned      bool
}

// Evaluator unlocks achievements whose threshold a volunteer has crossed.
// Every unlock is idempotent; evaluating twice never awards twice.
type Evaluator struct {
	achievementRepo repository.AchievementRepository
	pointRepo       repository.PointRepository
	userRepo        repository.UserRepository
	lboard          leaderboard.Leaderboard
	notifier        client.NotificationDispatcher
	scanners        map[entity.AchievementCategory]CounterScanner
}

func NewEvaluator(
	achievementRepo repository.AchievementRepository,
	pointRepo repository.PointRepository,
	userRepo repository.UserRepository,
	participationRepo repository.ParticipationRepository,
	lboard leaderboard.Leaderboard,
	notifier client.NotificationDispatcher,
) *Evaluator {
	scanners := map[entity.AchievementCategory]CounterScanner{}
	for _, scanner := range []CounterScanner{
		NewHoursScanner(participationRepo),
		NewShiftsScanner(participationRepo),
		NewStreakScanner(participationRepo),
		NewWeekendScanner(participationRepo),
		NewNightScanner(participationRepo),
		NewMedicalScanner(participationRepo),
		NewEarlyBirdScanner(userRepo),
	} {
		scanners[scanner.Category()] = scanner
	}

	return &Evaluator{
		achievementRepo: achievementRepo,
		pointRepo:       pointRepo,
		userRepo:        userRepo,
		lboard:          lboard,
		notifier:        notifier,
		scanners:        scanners,
	}
}

// met applies the per-category comparison direction. An early_bird threshold
// is a registration rank ceiling, every other threshold is a counter floor.
func met(achievement *entity.Achievement, counter int64) bool {
	if achievement.Category == entity.CategoryEarlyBird {
		return counter > 0 && counter <= achievement.Threshold
	}

	return counter >= achievement.Threshold
}

// Evaluate scans all active achievements for the volunteer and unlocks the
// new ones, crediting their point rewards. It returns the achievements
// unlocked by this call.
func (e *Evaluator) Evaluate(ctx context.Context, volunteerID string) ([]entity.Achievement, error) {
	achievements, err := e.achievementRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	earnedRows, err := e.achievementRepo.GetEarnedByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	earned := map[string]bool{}
	for i := range earnedRows {
		earned[earnedRows[i].AchievementID] = true
	}

	counters := map[entity.AchievementCategory]int64{}
	unlocked := []entity.Achievement{}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for i := range achievements {
		a := &achievements[i]
		if earned[a.ID] {
			continue
		}

		counter, ok := counters[a.Category]
		if !ok {
			scanner, found := e.scanners[a.Category]
			if !found {
				return nil, fmt.Errorf("no scanner for category %s", a.Category)
			}

			counter, err = scanner.Scan(ctx, volunteerID)
			if err != nil {
				return nil, err
			}

			counters[a.Category] = counter
		}

		if !met(a, counter) {
			continue
		}

		won, err := e.achievementRepo.CreateEarned(ctx, &entity.VolunteerAchievement{
			VolunteerID:   volunteerID,
			AchievementID: a.ID,
			EarnedAt:      time.Now(),
		})
		if err != nil {
			return nil, err
		}

		// A concurrent evaluation got there first.
		if !won {
			continue
		}

		if a.PointsReward > 0 {
			err = e.pointRepo.Create(ctx, &entity.VolunteerPoint{
				Base:        entity.Base{ID: uuid.NewString()},
				VolunteerID: volunteerID,
				Points:      a.PointsReward,
				Reason:      entity.ReasonAchievement,
				Description: fmt.Sprintf("Achievement %s", a.Code),
				SourceKind:  entity.SourceAchievement,
				SourceID:    sql.NullString{Valid: true, String: a.ID},
			})
			if err != nil {
				return nil, err
			}

			if err := e.userRepo.IncreasePoints(ctx, volunteerID, a.PointsReward); err != nil {
				return nil, err
			}
		}

		unlocked = append(unlocked, *a)
	}

	xcontext.WithCommitDBTransaction(ctx)

	for i := range unlocked {
		a := &unlocked[i]
		if a.PointsReward > 0 {
			if err := e.lboard.IncreasePoints(ctx, volunteerID, a.PointsReward); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot update leaderboard for achievement %s: %v", a.Code, err)
			}
		}

		e.notifier.Dispatch(ctx, client.Notification{
			Event:       client.AchievementEarnedEvent,
			RecipientID: volunteerID,
			Metadata:    map[string]string{"achievement_code": a.Code},
		})
	}

	return unlocked, nil
}

// GetProgress reports the current counter of every active achievement
// without unlocking anything.
func (e *Evaluator) GetProgress(ctx context.Context, volunteerID string) ([]Progress, error) {
	achievements, err := e.achievementRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	earnedRows, err := e.achievementRepo.GetEarnedByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	earned := map[string]bool{}
	for i := range earnedRows {
		earned[earnedRows[i].AchievementID] = true
	}

	counters := map[entity.AchievementCategory]int64{}
	result := make([]Progress, 0, len(achievements))
	for i := range achievements {
		a := achievements[i]
		counter, ok := counters[a.Category]
		if !ok {
			scanner, found := e.scanners[a.Category]
			if !found {
				return nil, fmt.Errorf("no scanner for category %s", a.Category)
			}

			counter, err = scanner.Scan(ctx, volunteerID)
			if err != nil {
				return nil, err
			}

			counters[a.Category] = counter
		}

		result = append(result, Progress{
			Achievement: a,
			Current:     counter,
			Earned:      earned[a.ID],
		})
	}

	return result, nil
}
