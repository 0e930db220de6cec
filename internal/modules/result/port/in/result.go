package in

import (
	"context"

	"preview/internal/modules/result/dto"
)

type Usecase interface {
	// Fetch retrieves the report immediately, with no loading screen
	// choreography. A cached copy is returned when the server is
	// unreachable and one exists.
	Fetch(ctx context.Context, interviewID int64) (dto.ReportOutput, error)
	// Load retrieves the report behind the staged loading screen: the
	// screen stays up at least the minimum duration, onStage fires for
	// every message rotation, and the fetch runs concurrently. onStage
	// may be nil.
	Load(ctx context.Context, interviewID int64, onStage func(dto.LoadingStage)) (dto.ReportOutput, error)
	// ListLocalReports lists the locally cached report history.
	ListLocalReports(ctx context.Context) ([]dto.ReportSummary, error)
}
