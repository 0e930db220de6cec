package usecase

import (
	"context"
	"fmt"

	interviewin "preview/internal/modules/interview/port/in"
	interviewout "preview/internal/modules/interview/port/out"
	"preview/internal/modules/interview/service"

	"preview/internal/modules/interview/dto"
)

// Interactor implements the interview usecase over the remote API and the
// local transcript projection.
type Interactor struct {
	api         interviewout.InterviewAPI
	transcripts interviewout.TranscriptStore
	sessions    *service.SessionService
}

func NewInteractor(api interviewout.InterviewAPI, transcripts interviewout.TranscriptStore, sessions *service.SessionService) *Interactor {
	return &Interactor{api: api, transcripts: transcripts, sessions: sessions}
}

var _ interviewin.Usecase = (*Interactor)(nil)

func (i *Interactor) List(ctx context.Context, page, size int) (dto.InterviewPage, error) {
	result, err := i.api.List(ctx, page, size)
	if err != nil {
		return dto.InterviewPage{}, fmt.Errorf("list interviews: %w", err)
	}
	items := make([]dto.Interview, 0, len(result.Items))
	for _, meta := range result.Items {
		items = append(items, toInterview(meta))
	}
	return dto.InterviewPage{
		Items:      items,
		Page:       result.Page,
		Size:       result.Size,
		TotalPages: result.TotalPages,
		TotalCount: result.TotalCount,
	}, nil
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.Interview, error) {
	meta, err := i.api.Create(ctx, interviewout.CreateSpec{
		Title:      input.Title,
		Type:       input.Type,
		Position:   input.Position,
		Level:      input.Level,
		TechStacks: input.TechStacks,
	})
	if err != nil {
		return dto.Interview{}, fmt.Errorf("create interview: %w", err)
	}
	return toInterview(meta), nil
}

func (i *Interactor) Get(ctx context.Context, id int64) (dto.Interview, error) {
	meta, err := i.api.Get(ctx, id)
	if err != nil {
		return dto.Interview{}, fmt.Errorf("get interview %d: %w", id, err)
	}
	return toInterview(meta), nil
}

func (i *Interactor) Start(ctx context.Context, id int64) error {
	if err := i.api.Start(ctx, id); err != nil {
		return fmt.Errorf("start interview %d: %w", id, err)
	}
	return nil
}

func (i *Interactor) Delete(ctx context.Context, id int64) error {
	if err := i.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete interview %d: %w", id, err)
	}
	return nil
}

func (i *Interactor) BeginSession(ctx context.Context, id int64) (interviewin.Session, error) {
	sess, err := i.sessions.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin session for interview %d: %w", id, err)
	}
	return sess, nil
}

func (i *Interactor) Transcript(ctx context.Context, id int64) ([]dto.TranscriptEntry, error) {
	records, err := i.transcripts.ListTranscript(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list transcript for interview %d: %w", id, err)
	}
	entries := make([]dto.TranscriptEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, dto.TranscriptEntry{
			InterviewID: rec.InterviewID,
			QuestionID:  rec.QuestionID,
			Phase:       rec.Phase.Label(),
			Sequence:    rec.Sequence,
			Question:    rec.Question,
			Answer:      rec.Answer,
			Feedback:    rec.Feedback,
			Score:       rec.Score,
			AnsweredAt:  rec.AnsweredAt,
		})
	}
	return entries, nil
}

func toInterview(meta interviewout.InterviewMeta) dto.Interview {
	return dto.Interview{
		ID:             meta.ID,
		Title:          meta.Title,
		Type:           meta.Type,
		Position:       meta.Position,
		Level:          meta.Level,
		TechStacks:     meta.TechStacks,
		Status:         meta.Status,
		CurrentPhase:   meta.CurrentPhase,
		TotalQuestions: meta.TotalQuestions,
	}
}
