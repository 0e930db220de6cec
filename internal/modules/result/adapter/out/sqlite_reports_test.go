package out

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"preview/internal/modules/result/domain"
	resultout "preview/internal/modules/result/port/out"
)

func newReportStore(t *testing.T) resultout.ReportStore {
	t.Helper()
	store, err := NewSQLiteReportStore(filepath.Join(t.TempDir(), "preview.db"))
	if err != nil {
		t.Fatalf("NewSQLiteReportStore: %v", err)
	}
	return store
}

func sampleReport() domain.Report {
	return domain.Report{
		InterviewID:       5,
		Title:             "Backend Mock",
		Type:              "TECHNICAL",
		Position:          "BACKEND",
		TechStacks:        []string{"Go", "PostgreSQL"},
		TotalQuestions:    4,
		AnsweredQuestions: 4,
		AverageScore:      82.5,
		Phases: []domain.PhaseGroup{
			{Phase: "OPENING", Label: "Opening", Entries: []domain.Entry{
				{QuestionID: 1, Sequence: 1, Question: "Introduce yourself", Answer: "hi", Feedback: "good", Score: 80, Answered: true},
			}},
		},
		AIReport:    domain.AIReport{Summary: "solid", OverallScore: 82},
		HasAIReport: true,
	}
}

func TestSaveAndLoadReportRoundTrip(t *testing.T) {
	t.Parallel()

	store := newReportStore(t)
	ctx := context.Background()
	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.SaveReport(ctx, sampleReport(), savedAt); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := store.LoadReport(ctx, 5)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if got.Title != "Backend Mock" || got.AverageScore != 82.5 || !got.HasAIReport {
		t.Fatalf("report = %+v", got)
	}
	if len(got.Phases) != 1 || len(got.Phases[0].Entries) != 1 {
		t.Fatalf("phases = %+v", got.Phases)
	}
	if got.Phases[0].Entries[0].Question != "Introduce yourself" {
		t.Fatalf("entry = %+v", got.Phases[0].Entries[0])
	}
}

func TestSaveReportReplacesPreviousCopy(t *testing.T) {
	t.Parallel()

	store := newReportStore(t)
	ctx := context.Background()

	report := sampleReport()
	if err := store.SaveReport(ctx, report, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	report.AverageScore = 90
	if err := store.SaveReport(ctx, report, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SaveReport again: %v", err)
	}

	summaries, err := store.ListReports(ctx)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
	if summaries[0].AverageScore != 90 {
		t.Fatalf("summary = %+v, want latest score", summaries[0])
	}
}

func TestLoadReportMissing(t *testing.T) {
	t.Parallel()

	store := newReportStore(t)
	if _, err := store.LoadReport(context.Background(), 404); err == nil {
		t.Fatal("want error for a report that was never cached")
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	t.Parallel()

	store := newReportStore(t)
	ctx := context.Background()

	older := sampleReport()
	older.InterviewID = 1
	newer := sampleReport()
	newer.InterviewID = 2
	if err := store.SaveReport(ctx, older, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := store.SaveReport(ctx, newer, time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	summaries, err := store.ListReports(ctx)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(summaries) != 2 || summaries[0].InterviewID != 2 {
		t.Fatalf("summaries = %+v, want newest first", summaries)
	}
}
