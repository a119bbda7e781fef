package repository

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

type PointStatisticFilter struct {
	Start time.Time
	End   time.Time
}

// VolunteerPointRow aggregates ledger points per volunteer.
type VolunteerPointRow struct {
	VolunteerID string
	Points      int64
}

// PointRepository is the append-only ledger. There is deliberately no update
// or delete operation.
type PointRepository interface {
	Create(ctx context.Context, data *entity.VolunteerPoint) error
	GetByVolunteer(ctx context.Context, volunteerID string, offset, limit int) ([]entity.VolunteerPoint, error)

	// SumByVolunteer totals the ledger in [start, end); zero times remove
	// the corresponding bound.
	SumByVolunteer(ctx context.Context, volunteerID string, start, end time.Time) (int64, error)

	// Statistic totals points per volunteer over a window, used to load
	// leaderboards and compute yearly rankings.
	Statistic(ctx context.Context, filter PointStatisticFilter) ([]VolunteerPointRow, error)

	CountBySource(ctx context.Context, kind entity.PointSourceKind, sourceID string, reason entity.PointReason) (int64, error)
}

type pointRepository struct{}

func NewPointRepository() *pointRepository {
	return &pointRepository{}
}

func (r *pointRepository) Create(ctx context.Context, data *entity.VolunteerPoint) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointRepository) GetByVolunteer(
	ctx context.Context, volunteerID string, offset, limit int,
) ([]entity.VolunteerPoint, error) {
	result := []entity.VolunteerPoint{}
	err := xcontext.DB(ctx).
		Where("volunteer_id=?", volunteerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointRepository) SumByVolunteer(
	ctx context.Context, volunteerID string, start, end time.Time,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.VolunteerPoint{}).
		Where("volunteer_id=?", volunteerID)

	if !start.IsZero() {
		tx = tx.Where("created_at >= ?", start)
	}

	if !end.IsZero() {
		tx = tx.Where("created_at < ?", end)
	}

	var result *int64
	if err := tx.Select("SUM(points)").Scan(&result).Error; err != nil {
		return 0, err
	}

	if result == nil {
		return 0, nil
	}

	return *result, nil
}

func (r *pointRepository) Statistic(
	ctx context.Context, filter PointStatisticFilter,
) ([]VolunteerPointRow, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.VolunteerPoint{}).
		Select("volunteer_id, SUM(points) as points").
		Group("volunteer_id")

	if !filter.Start.IsZero() {
		tx = tx.Where("created_at >= ?", filter.Start)
	}

	if !filter.End.IsZero() {
		tx = tx.Where("created_at < ?", filter.End)
	}

	result := []VolunteerPointRow{}
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointRepository) CountBySource(
	ctx context.Context, kind entity.PointSourceKind, sourceID string, reason entity.PointReason,
) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.VolunteerPoint{}).
		Where("source_kind=? AND source_id=? AND reason=?", kind, sourceID, reason).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
