package in

import (
	"context"

	resultdto "preview/internal/modules/result/dto"
	resultin "preview/internal/modules/result/port/in"
)

type CLIHandler struct {
	usecase resultin.Usecase
}

func NewCLIHandler(usecase resultin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Fetch(ctx context.Context, interviewID int64) (resultdto.ReportOutput, error) {
	return h.usecase.Fetch(ctx, interviewID)
}

func (h CLIHandler) Load(ctx context.Context, interviewID int64, onStage func(resultdto.LoadingStage)) (resultdto.ReportOutput, error) {
	return h.usecase.Load(ctx, interviewID, onStage)
}

func (h CLIHandler) ListLocalReports(ctx context.Context) ([]resultdto.ReportSummary, error) {
	return h.usecase.ListLocalReports(ctx)
}
