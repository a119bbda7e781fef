package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/dateutil"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xredis"

	"github.com/redis/go-redis/v9"
)

// Period selects a ranking window. The zero Month means all-time.
type Period struct {
	Month time.Time
}

func AllTime() Period {
	return Period{}
}

func MonthOf(t time.Time) Period {
	return Period{Month: dateutil.BeginningOfMonth(t)}
}

func (p Period) key() string {
	if p.Month.IsZero() {
		return "leaderboard:alltime"
	}

	return fmt.Sprintf("leaderboard:month:%s", p.Month.Format("2006-01"))
}

func (p Period) window() (time.Time, time.Time) {
	if p.Month.IsZero() {
		return time.Time{}, time.Time{}
	}

	return p.Month, dateutil.NextMonth(p.Month)
}

type Entry struct {
	VolunteerID string
	Points      int64
	Rank        uint64
}

// Leaderboard ranks volunteers by points over a period. The redis sorted set
// is a cache of the point ledger and is reloaded lazily after a flush or a
// cold start.
type Leaderboard interface {
	IncreasePoints(ctx context.Context, volunteerID string, points int64) error
	GetTop(ctx context.Context, period Period, offset, limit int) ([]Entry, error)
	GetRank(ctx context.Context, period Period, volunteerID string) (Entry, error)
	Flush(ctx context.Context, periods ...Period) error
}

type redisLeaderboard struct {
	pointRepo   repository.PointRepository
	redisClient xredis.Client
}

func New(pointRepo repository.PointRepository, redisClient xredis.Client) *redisLeaderboard {
	return &redisLeaderboard{pointRepo: pointRepo, redisClient: redisClient}
}

func (l *redisLeaderboard) IncreasePoints(
	ctx context.Context, volunteerID string, points int64,
) error {
	now := time.Now()
	for _, period := range []Period{AllTime(), MonthOf(now)} {
		fresh, err := l.ensureLoaded(ctx, period)
		if err != nil {
			return err
		}

		// A fresh load reads the ledger after the caller committed, so the
		// new points are already in the set.
		if fresh {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, period.key(), points, volunteerID); err != nil {
			return err
		}
	}

	return nil
}

func (l *redisLeaderboard) GetTop(
	ctx context.Context, period Period, offset, limit int,
) ([]Entry, error) {
	if _, err := l.ensureLoaded(ctx, period); err != nil {
		return nil, err
	}

	zs, err := l.redisClient.ZRevRangeWithScores(ctx, period.key(), offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("invalid member type %T", z.Member)
		}

		result = append(result, Entry{
			VolunteerID: member,
			Points:      int64(z.Score),
			Rank:        uint64(offset + i + 1),
		})
	}

	return result, nil
}

func (l *redisLeaderboard) GetRank(
	ctx context.Context, period Period, volunteerID string,
) (Entry, error) {
	if _, err := l.ensureLoaded(ctx, period); err != nil {
		return Entry{}, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, period.key(), volunteerID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{VolunteerID: volunteerID}, nil
		}

		return Entry{}, err
	}

	score, err := l.redisClient.ZScore(ctx, period.key(), volunteerID)
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, err
	}

	return Entry{
		VolunteerID: volunteerID,
		Points:      int64(score),
		Rank:        rank + 1,
	}, nil
}

func (l *redisLeaderboard) Flush(ctx context.Context, periods ...Period) error {
	keys := make([]string, 0, len(periods))
	for _, period := range periods {
		keys = append(keys, period.key())
	}

	return l.redisClient.Del(ctx, keys...)
}

// ensureLoaded rebuilds the sorted set from the ledger when the key is
// missing. It reports whether this call did the load.
func (l *redisLeaderboard) ensureLoaded(ctx context.Context, period Period) (bool, error) {
	exist, err := l.redisClient.Exist(ctx, period.key())
	if err != nil {
		return false, err
	}

	if exist {
		return false, nil
	}

	start, end := period.window()
	rows, err := l.pointRepo.Statistic(ctx, repository.PointStatisticFilter{Start: start, End: end})
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		err := l.redisClient.ZAdd(ctx, period.key(), redis.Z{
			Score:  float64(row.Points),
			Member: row.VolunteerID,
		})
		if err != nil {
			return false, err
		}
	}

	xcontext.Logger(ctx).Debugf("Loaded %d members into %s", len(rows), period.key())
	return true, nil
}
