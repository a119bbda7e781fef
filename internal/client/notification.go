package client

import (
	"context"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

type NotificationEvent string

const (
	ParticipationRequestedEvent NotificationEvent = "participation_requested"
	ParticipationApprovedEvent  NotificationEvent = "participation_approved"
	ParticipationRejectedEvent  NotificationEvent = "participation_rejected"
	ParticipationCanceledEvent  NotificationEvent = "participation_canceled"
	AttendanceConfirmedEvent    NotificationEvent = "attendance_confirmed"
	ShiftFullEvent              NotificationEvent = "shift_full"
	MissionPublishedEvent       NotificationEvent = "mission_published"
	MissionCanceledEvent        NotificationEvent = "mission_canceled"
	AchievementEarnedEvent      NotificationEvent = "achievement_earned"
)

// Notification is delivered to a recipient after the transaction that
// produced it has committed. Delivery is best effort.
type Notification struct {
	Event       NotificationEvent
	RecipientID string
	Metadata    map[string]string
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}

type loggerNotificationDispatcher struct{}

func NewLoggerNotificationDispatcher() *loggerNotificationDispatcher {
	return &loggerNotificationDispatcher{}
}

func (d *loggerNotificationDispatcher) Dispatch(ctx context.Context, n Notification) {
	xcontext.Logger(ctx).Infof("notify %s: event=%s metadata=%v",
		n.RecipientID, n.Event, n.Metadata)
}
