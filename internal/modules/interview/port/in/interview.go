package in

import (
	"context"

	"preview/internal/modules/interview/dto"
)

type Usecase interface {
	List(ctx context.Context, page, size int) (dto.InterviewPage, error)
	Create(ctx context.Context, input dto.CreateInput) (dto.Interview, error)
	Get(ctx context.Context, id int64) (dto.Interview, error)
	Start(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	BeginSession(ctx context.Context, id int64) (Session, error)
	Transcript(ctx context.Context, id int64) ([]dto.TranscriptEntry, error)
}

// Session drives one interview session. Implementations are not safe for
// concurrent use; the single-threaded event loop owns them.
type Session interface {
	Snapshot() dto.SessionSnapshot
	// Submit runs the answer pipeline for the current question. Empty or
	// whitespace-only content returns ErrEmptyAnswer without any network
	// call or state change.
	Submit(ctx context.Context, content string) (dto.SubmitOutput, error)
	// Advance clears held feedback and moves to the next question. It
	// reports false when the session is complete.
	Advance() (dto.SessionSnapshot, bool)
}
