package stream

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// sensitiveHints flags column names that usually carry credentials or PII.
// The audit only fires when the caller opts in with AuditFields.
var sensitiveHints = []string{"password", "secret", "token", "key", "credential", "auth", "ssn"}

// Config fixes the table, the column order and the message syntax for one
// streaming run. The schema is external configuration; the streamer never
// discovers columns at runtime.
type Config struct {
	Table     string
	Columns   []string
	Separator rune

	// AuditFields, when non-empty, is the set of column names the caller
	// already covers with redaction. Columns outside it whose names look
	// sensitive draw a warning before streaming starts.
	AuditFields []string
}

// Streamer reads rows from a tabular source and emits one key=value message
// per row at INFO level. Redaction is entirely the logger's concern; the
// streamer only fetches and formats.
type Streamer struct {
	db     *sql.DB
	logger *slog.Logger
	cfg    Config
}

func New(db *sql.DB, logger *slog.Logger, cfg Config) *Streamer {
	return &Streamer{db: db, logger: logger, cfg: cfg}
}

// Stream runs one query over the configured table and logs every row. It
// returns the number of rows emitted. Any connection or query failure aborts
// the whole run; the cursor is released on every exit path and no row is
// retried.
func (s *Streamer) Stream(ctx context.Context) (int, error) {
	if len(s.cfg.Columns) == 0 {
		return 0, fmt.Errorf("stream: no columns configured for table %s", s.cfg.Table)
	}
	session := uuid.New().String()
	s.auditColumns()

	query := "SELECT " + strings.Join(s.cfg.Columns, ", ") + " FROM " + s.cfg.Table
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("stream: query %s: %w", s.cfg.Table, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(s.cfg.Columns))
	scan := make([]any, len(values))
	for i := range values {
		scan[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return count, fmt.Errorf("stream: scan row %d: %w", count, err)
		}
		s.logger.InfoContext(ctx, s.buildMessage(values))
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("stream: iterate %s: %w", s.cfg.Table, err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("session=%s%crows=%d%c", session, s.cfg.Separator, count, s.cfg.Separator))
	return count, nil
}

// buildMessage renders one row as "col=val<sep>col=val<sep>...<sep>" with
// every segment terminator-terminated. NULL renders as an empty value, which
// the redaction engine still masks when the column is sensitive.
func (s *Streamer) buildMessage(values []sql.NullString) string {
	var b strings.Builder
	for i, col := range s.cfg.Columns {
		b.WriteString(col)
		b.WriteByte('=')
		if values[i].Valid {
			b.WriteString(values[i].String)
		}
		b.WriteRune(s.cfg.Separator)
	}
	return b.String()
}

// auditColumns warns once per suspicious column that is not covered by the
// caller's declared redaction fields. Off unless AuditFields is set.
func (s *Streamer) auditColumns() {
	if len(s.cfg.AuditFields) == 0 {
		return
	}
	covered := make(map[string]struct{}, len(s.cfg.AuditFields))
	for _, f := range s.cfg.AuditFields {
		covered[f] = struct{}{}
	}
	for _, col := range s.cfg.Columns {
		if _, ok := covered[col]; ok {
			continue
		}
		lower := strings.ToLower(col)
		for _, hint := range sensitiveHints {
			if strings.Contains(lower, hint) {
				s.logger.Warn(fmt.Sprintf("column %q looks sensitive but is not in the redaction field set", col))
				break
			}
		}
	}
}
