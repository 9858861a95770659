// Package logging writes the function's structured log records: one JSON
// object per line, each carrying an event discriminator and the request id
// of the invocation that produced it.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// Values of the "event" key.
const (
	EventTableAccess       = "table_access"
	EventItemInsert        = "item_insert"
	EventDefaultItemInsert = "default_item_insert"
	EventError             = "error"
)

// New returns a JSON logger writing to w.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Request logs the records of a single invocation.
type Request struct {
	log *slog.Logger
}

// ForRequest tags every record with requestID. A non-empty traceID is added
// as xray_trace_id.
func ForRequest(log *slog.Logger, requestID, traceID string) *Request {
	log = log.With(slog.String("request_id", requestID))
	if traceID != "" {
		log = log.With(slog.String("xray_trace_id", traceID))
	}
	return &Request{log: log}
}

// TableAccess is logged first on every invocation. A nil sourceIP or
// userAgent is written as null.
func (r *Request) TableAccess(ctx context.Context, table string, sourceIP, userAgent *string) {
	r.log.LogAttrs(ctx, slog.LevelInfo, "table access",
		slog.String("event", EventTableAccess),
		slog.String("table_name", table),
		slog.Any("source_ip", nullable(sourceIP)),
		slog.Any("user_agent", nullable(userAgent)),
	)
}

// ItemInsert logs the id as it appeared in the body, before coercion.
func (r *Request) ItemInsert(ctx context.Context, itemID any) {
	r.log.LogAttrs(ctx, slog.LevelInfo, "item insert",
		slog.String("event", EventItemInsert),
		slog.Any("item_id", itemID),
	)
}

func (r *Request) DefaultItemInsert(ctx context.Context) {
	r.log.LogAttrs(ctx, slog.LevelInfo, "default item insert",
		slog.String("event", EventDefaultItemInsert),
	)
}

func (r *Request) Error(ctx context.Context, kind string, err error) {
	r.log.LogAttrs(ctx, slog.LevelError, "error",
		slog.String("event", EventError),
		slog.String("error_type", kind),
		slog.String("error_message", err.Error()),
	)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
