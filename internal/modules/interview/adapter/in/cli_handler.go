package in

import (
	"context"

	interviewdto "preview/internal/modules/interview/dto"
	interviewin "preview/internal/modules/interview/port/in"
)

type CLIHandler struct {
	usecase interviewin.Usecase
}

func NewCLIHandler(usecase interviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, page, size int) (interviewdto.InterviewPage, error) {
	return h.usecase.List(ctx, page, size)
}

func (h CLIHandler) Create(ctx context.Context, input interviewdto.CreateInput) (interviewdto.Interview, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) Get(ctx context.Context, id int64) (interviewdto.Interview, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Start(ctx context.Context, id int64) error {
	return h.usecase.Start(ctx, id)
}

func (h CLIHandler) Delete(ctx context.Context, id int64) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) BeginSession(ctx context.Context, id int64) (interviewin.Session, error) {
	return h.usecase.BeginSession(ctx, id)
}

func (h CLIHandler) Transcript(ctx context.Context, id int64) ([]interviewdto.TranscriptEntry, error) {
	return h.usecase.Transcript(ctx, id)
}
