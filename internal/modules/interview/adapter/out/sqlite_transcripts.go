package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"preview/internal/modules/interview/domain"
	interviewout "preview/internal/modules/interview/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteTranscriptStore projects answered questions into a local table so
// history survives without the server.
type SQLiteTranscriptStore struct {
	db *sql.DB
}

func NewSQLiteTranscriptStore(dbPath string) (interviewout.TranscriptStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteTranscriptStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteTranscriptStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS transcripts (
  interview_id INTEGER NOT NULL,
  question_id INTEGER NOT NULL,
  phase TEXT NOT NULL,
  sequence INTEGER NOT NULL,
  question TEXT NOT NULL,
  answer TEXT NOT NULL,
  feedback TEXT NOT NULL,
  score INTEGER NOT NULL,
  answered_at TEXT NOT NULL,
  PRIMARY KEY (interview_id, question_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create transcripts table: %w", err)
	}
	return nil
}

func (s *SQLiteTranscriptStore) RecordAnswer(ctx context.Context, record interviewout.TranscriptRecord) error {
	const stmt = `
INSERT INTO transcripts (interview_id, question_id, phase, sequence, question, answer, feedback, score, answered_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(interview_id, question_id) DO UPDATE SET
  answer=excluded.answer,
  feedback=excluded.feedback,
  score=excluded.score,
  answered_at=excluded.answered_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.InterviewID,
		record.QuestionID,
		string(record.Phase),
		record.Sequence,
		record.Question,
		record.Answer,
		record.Feedback,
		record.Score,
		record.AnsweredAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (s *SQLiteTranscriptStore) ListTranscript(ctx context.Context, interviewID int64) ([]interviewout.TranscriptRecord, error) {
	const query = `
SELECT interview_id, question_id, phase, sequence, question, answer, feedback, score, answered_at
FROM transcripts
WHERE interview_id = ?
ORDER BY answered_at, sequence;
`
	rows, err := s.db.QueryContext(ctx, query, interviewID)
	if err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}
	defer rows.Close()

	var records []interviewout.TranscriptRecord
	for rows.Next() {
		var rec interviewout.TranscriptRecord
		var phase, answeredAt string
		if err := rows.Scan(
			&rec.InterviewID,
			&rec.QuestionID,
			&phase,
			&rec.Sequence,
			&rec.Question,
			&rec.Answer,
			&rec.Feedback,
			&rec.Score,
			&answeredAt,
		); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		rec.Phase = domain.Phase(phase)
		if ts, err := time.Parse(time.RFC3339, answeredAt); err == nil {
			rec.AnsweredAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript rows: %w", err)
	}
	return records, nil
}

func (s *SQLiteTranscriptStore) Close() error {
	return s.db.Close()
}
