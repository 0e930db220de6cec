package out

import (
	"context"
	"time"

	"preview/internal/modules/interview/domain"
)

// QuestionSet is the phase-grouped wire shape plus the order in which the
// phases appeared in the response, so unknown phases can be appended in
// encounter order during flattening.
type QuestionSet struct {
	ByPhase        map[domain.Phase][]domain.Question
	EncounterOrder []domain.Phase
}

// InterviewMeta is the catalog record for one interview.
type InterviewMeta struct {
	ID             int64
	Title          string
	Type           string
	Position       string
	Level          string
	TechStacks     []string
	Status         string
	CurrentPhase   string
	TotalQuestions int
}

type InterviewPage struct {
	Items      []InterviewMeta
	Page       int
	Size       int
	TotalPages int
	TotalCount int64
}

type CreateSpec struct {
	Title      string
	Type       string
	Position   string
	Level      string
	TechStacks []string
}

// InterviewAPI is the remote interview surface.
type InterviewAPI interface {
	List(ctx context.Context, page, size int) (InterviewPage, error)
	Create(ctx context.Context, spec CreateSpec) (InterviewMeta, error)
	Get(ctx context.Context, id int64) (InterviewMeta, error)
	Start(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Questions(ctx context.Context, id int64) (QuestionSet, error)
	SubmitAnswer(ctx context.Context, interviewID, questionID int64, content string) (domain.Feedback, error)
}

// TranscriptRecord is one answered question projected into local history.
type TranscriptRecord struct {
	InterviewID int64
	QuestionID  int64
	Phase       domain.Phase
	Sequence    int
	Question    string
	Answer      string
	Feedback    string
	Score       int
	AnsweredAt  time.Time
}

// TranscriptStore caches answered questions locally. Recording is
// best-effort: a projection failure never fails a submission.
type TranscriptStore interface {
	RecordAnswer(ctx context.Context, record TranscriptRecord) error
	ListTranscript(ctx context.Context, interviewID int64) ([]TranscriptRecord, error)
}
