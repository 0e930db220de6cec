package out

import (
	"context"
	"time"

	"preview/internal/modules/result/domain"
)

// ResultAPI fetches the aggregated interview result from the server.
type ResultAPI interface {
	Fetch(ctx context.Context, interviewID int64) (domain.Report, error)
}

// ReportSummary is one row of the local report index.
type ReportSummary struct {
	InterviewID  int64
	Title        string
	AverageScore float64
	SavedAt      time.Time
}

// ReportStore caches fetched reports locally. Saving is best-effort; a
// cached copy serves reads when the server is unreachable.
type ReportStore interface {
	SaveReport(ctx context.Context, report domain.Report, savedAt time.Time) error
	LoadReport(ctx context.Context, interviewID int64) (domain.Report, error)
	ListReports(ctx context.Context) ([]ReportSummary, error)
}
