package out

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"preview/internal/modules/interview/domain"
	interviewout "preview/internal/modules/interview/port/out"
)

func newTranscriptStore(t *testing.T) interviewout.TranscriptStore {
	t.Helper()
	store, err := NewSQLiteTranscriptStore(filepath.Join(t.TempDir(), "preview.db"))
	if err != nil {
		t.Fatalf("NewSQLiteTranscriptStore: %v", err)
	}
	return store
}

func TestRecordAnswerAndListTranscript(t *testing.T) {
	t.Parallel()

	store := newTranscriptStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	records := []interviewout.TranscriptRecord{
		{InterviewID: 1, QuestionID: 10, Phase: domain.PhaseOpening, Sequence: 1, Question: "Introduce yourself", Answer: "hi", Feedback: "good", Score: 80, AnsweredAt: base},
		{InterviewID: 1, QuestionID: 11, Phase: domain.PhaseTechnical, Sequence: 1, Question: "Explain GC", Answer: "tri-color", Feedback: "solid", Score: 90, AnsweredAt: base.Add(time.Minute)},
		{InterviewID: 2, QuestionID: 20, Phase: domain.PhaseOpening, Sequence: 1, Question: "Other interview", Answer: "x", Feedback: "y", Score: 50, AnsweredAt: base},
	}
	for _, rec := range records {
		if err := store.RecordAnswer(ctx, rec); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}

	got, err := store.ListTranscript(ctx, 1)
	if err != nil {
		t.Fatalf("ListTranscript: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0].QuestionID != 10 || got[1].QuestionID != 11 {
		t.Fatalf("order = %d, %d", got[0].QuestionID, got[1].QuestionID)
	}
	if got[1].Phase != domain.PhaseTechnical || got[1].Score != 90 {
		t.Fatalf("record = %+v", got[1])
	}
	if !got[0].AnsweredAt.Equal(base) {
		t.Fatalf("answered at = %v, want %v", got[0].AnsweredAt, base)
	}
}

func TestRecordAnswerUpsertsResubmission(t *testing.T) {
	t.Parallel()

	store := newTranscriptStore(t)
	ctx := context.Background()

	rec := interviewout.TranscriptRecord{
		InterviewID: 1, QuestionID: 10, Phase: domain.PhaseOpening, Sequence: 1,
		Question: "Introduce yourself", Answer: "first try", Feedback: "meh", Score: 40,
		AnsweredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := store.RecordAnswer(ctx, rec); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	rec.Answer = "second try"
	rec.Score = 85
	if err := store.RecordAnswer(ctx, rec); err != nil {
		t.Fatalf("RecordAnswer upsert: %v", err)
	}

	got, err := store.ListTranscript(ctx, 1)
	if err != nil {
		t.Fatalf("ListTranscript: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].Answer != "second try" || got[0].Score != 85 {
		t.Fatalf("record = %+v, want latest submission", got[0])
	}
}

func TestListTranscriptEmptyInterview(t *testing.T) {
	t.Parallel()

	store := newTranscriptStore(t)
	got, err := store.ListTranscript(context.Background(), 99)
	if err != nil {
		t.Fatalf("ListTranscript: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("records = %d, want 0", len(got))
	}
}
