package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"preview/internal/modules/result/domain"
	resultout "preview/internal/modules/result/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteReportStore caches fetched reports so past results stay readable
// without the server.
type SQLiteReportStore struct {
	db *sql.DB
}

func NewSQLiteReportStore(dbPath string) (resultout.ReportStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteReportStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteReportStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reports (
  interview_id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  average_score REAL NOT NULL,
  payload TEXT NOT NULL,
  saved_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}
	return nil
}

func (s *SQLiteReportStore) SaveReport(ctx context.Context, report domain.Report, savedAt time.Time) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	const stmt = `
INSERT INTO reports (interview_id, title, average_score, payload, saved_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(interview_id) DO UPDATE SET
  title=excluded.title,
  average_score=excluded.average_score,
  payload=excluded.payload,
  saved_at=excluded.saved_at;
`
	_, err = s.db.ExecContext(ctx, stmt,
		report.InterviewID,
		report.Title,
		report.AverageScore,
		string(payload),
		savedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *SQLiteReportStore) LoadReport(ctx context.Context, interviewID int64) (domain.Report, error) {
	const query = `SELECT payload FROM reports WHERE interview_id = ?`
	var payload string
	if err := s.db.QueryRowContext(ctx, query, interviewID).Scan(&payload); err != nil {
		return domain.Report{}, fmt.Errorf("load report %d: %w", interviewID, err)
	}
	var report domain.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return domain.Report{}, fmt.Errorf("decode report %d: %w", interviewID, err)
	}
	return report, nil
}

func (s *SQLiteReportStore) ListReports(ctx context.Context) ([]resultout.ReportSummary, error) {
	const query = `
SELECT interview_id, title, average_score, saved_at
FROM reports
ORDER BY saved_at DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var summaries []resultout.ReportSummary
	for rows.Next() {
		var summary resultout.ReportSummary
		var savedAt string
		if err := rows.Scan(&summary.InterviewID, &summary.Title, &summary.AverageScore, &savedAt); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, savedAt); err == nil {
			summary.SavedAt = ts
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return summaries, nil
}

func (s *SQLiteReportStore) Close() error {
	return s.db.Close()
}
