package client

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

// AuditEntry records a state transition after it has been committed.
type AuditEntry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	At         time.Time
}

type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

type loggerAuditSink struct{}

func NewLoggerAuditSink() *loggerAuditSink {
	return &loggerAuditSink{}
}

func (s *loggerAuditSink) Record(ctx context.Context, entry AuditEntry) {
	xcontext.Logger(ctx).Infof("audit: actor=%s action=%s %s=%s detail=%q",
		entry.Actor, entry.Action, entry.EntityType, entry.EntityID, entry.Detail)
}
