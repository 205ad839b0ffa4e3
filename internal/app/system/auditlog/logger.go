// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/converge/internal/app/store/audit"
	"github.com/dalemusser/converge/internal/app/system/ratelimit"
	"github.com/dalemusser/converge/internal/app/system/regerr"
	"github.com/dalemusser/converge/internal/app/system/requestid"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
type Config struct {
	Groups   string
	Meetings string
}

// Logger records registry mutation attempts to MongoDB (via audit.Store)
// and to structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when config never
// routes events to the database.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("caller", event.Caller),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.FailureKind != "" {
		fields = append(fields, zap.String("failure_kind", event.FailureKind))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) setting(category string) string {
	switch category {
	case audit.CategoryGroup:
		return l.config.Groups
	case audit.CategoryMeeting:
		return l.config.Meetings
	default:
		return "all"
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handler tests can omit auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == "off" {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestid.FromContext(ctx)
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// mutation builds an event for one registry call. A nil err records success;
// otherwise the registry failure kind is kept alongside the message.
func (l *Logger) mutation(ctx context.Context, r *http.Request, category, eventType, caller string, err error, details map[string]string) {
	event := audit.Event{
		Category:  category,
		EventType: eventType,
		Caller:    caller,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   err == nil,
		Details:   details,
	}
	if err != nil {
		event.FailureKind = string(regerr.KindOf(err))
		event.FailureReason = err.Error()
	}
	l.Log(ctx, event)
}

// --- Group events ---

func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, caller, name string, err error) {
	l.mutation(ctx, r, audit.CategoryGroup, audit.EventGroupCreated, caller, err,
		map[string]string{"group": name})
}

func (l *Logger) GroupUpdated(ctx context.Context, r *http.Request, caller, name string, err error) {
	l.mutation(ctx, r, audit.CategoryGroup, audit.EventGroupUpdated, caller, err,
		map[string]string{"group": name})
}

func (l *Logger) GroupDeleted(ctx context.Context, r *http.Request, caller, name string, err error) {
	l.mutation(ctx, r, audit.CategoryGroup, audit.EventGroupDeleted, caller, err,
		map[string]string{"group": name})
}

// --- Meeting events ---

// MeetingCreated logs an addMeeting attempt. id is zero when the call failed.
func (l *Logger) MeetingCreated(ctx context.Context, r *http.Request, caller, groupName string, id uint64, err error) {
	details := map[string]string{"group": groupName}
	if err == nil {
		details["meeting_id"] = strconv.FormatUint(id, 10)
	}
	l.mutation(ctx, r, audit.CategoryMeeting, audit.EventMeetingCreated, caller, err, details)
}

func (l *Logger) MeetingUpdated(ctx context.Context, r *http.Request, caller string, id uint64, err error) {
	l.mutation(ctx, r, audit.CategoryMeeting, audit.EventMeetingUpdated, caller, err,
		map[string]string{"meeting_id": strconv.FormatUint(id, 10)})
}

func (l *Logger) MeetingDeleted(ctx context.Context, r *http.Request, caller string, id uint64, err error) {
	l.mutation(ctx, r, audit.CategoryMeeting, audit.EventMeetingDeleted, caller, err,
		map[string]string{"meeting_id": strconv.FormatUint(id, 10)})
}
