// Package audit records workflow step outcomes to the form_submissions
// table. Logging is fire-and-forget: a failed audit write is itself only
// logged, never surfaced.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Entry struct {
	FormType     string
	Name         string
	Email        string
	Message      string
	Status       string // success | failure
	ErrorMessage string
	Metadata     map[string]any
}

type Logger struct {
	logger *zap.Logger
	pg     *pgxpool.Pool
}

func NewLogger(logger *zap.Logger, pg *pgxpool.Pool) *Logger {
	return &Logger{logger: logger, pg: pg}
}

// Record swallows its own failures.
func (l *Logger) Record(ctx context.Context, e Entry) {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		meta = []byte("{}")
	}

	const q = `
INSERT INTO form_submissions (form_type, name, email, message, status, error_message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, now())`

	if _, err := l.pg.Exec(ctx, q, e.FormType, e.Name, e.Email, e.Message, e.Status, e.ErrorMessage, meta); err != nil {
		l.logger.Warn("audit record failed", zap.String("form_type", e.FormType), zap.Error(err))
	}
}
