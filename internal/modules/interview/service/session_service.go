package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"preview/internal/modules/interview/domain"
	"preview/internal/modules/interview/dto"
	interviewout "preview/internal/modules/interview/port/out"
	"preview/internal/platform/clock"
	apperrors "preview/internal/platform/errors"
)

// SessionService builds live sessions over the remote question set.
type SessionService struct {
	clock       clock.Clock
	api         interviewout.InterviewAPI
	transcripts interviewout.TranscriptStore
}

func NewSessionService(clock clock.Clock, api interviewout.InterviewAPI, transcripts interviewout.TranscriptStore) *SessionService {
	return &SessionService{clock: clock, api: api, transcripts: transcripts}
}

// Begin fetches interview metadata and the question set concurrently,
// joins them, and positions the registry cursor at the first unanswered
// question.
func (s *SessionService) Begin(ctx context.Context, interviewID int64) (*Session, error) {
	var meta interviewout.InterviewMeta
	var set interviewout.QuestionSet

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		meta, err = s.api.Get(groupCtx, interviewID)
		return err
	})
	group.Go(func() error {
		var err error
		set, err = s.api.Questions(groupCtx, interviewID)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	registry := domain.NewRegistry()
	registry.Initialize(meta.Title, domain.Flatten(set.ByPhase, set.EncounterOrder))

	return &Session{
		svc:         s,
		interviewID: interviewID,
		registry:    registry,
	}, nil
}

// Session is the answer submission pipeline over one registry. Not safe
// for concurrent use.
type Session struct {
	svc         *SessionService
	interviewID int64

	registry      *domain.Registry
	feedback      *domain.Feedback
	submittedText string
	submitting    bool
}

// Submit runs one pipeline invocation for the question under the cursor.
//
// The submitted text is captured before the network call starts so it can
// be redisplayed regardless of later state changes. On failure the local
// state is untouched and the caller may retry. A success with a follow-up
// splices it locally; without one the registry re-synchronizes against a
// fresh fetch, falling back to marking only the current entry answered
// when that fetch fails.
func (sess *Session) Submit(ctx context.Context, content string) (dto.SubmitOutput, error) {
	if sess.submitting {
		return dto.SubmitOutput{}, apperrors.ErrSubmissionInFlight
	}
	switch sess.registry.State() {
	case domain.StateComplete:
		return dto.SubmitOutput{}, apperrors.ErrSessionComplete
	case domain.StateNoQuestions:
		return dto.SubmitOutput{}, apperrors.ErrNoQuestions
	}
	if strings.TrimSpace(content) == "" {
		return dto.SubmitOutput{}, apperrors.ErrEmptyAnswer
	}
	current, ok := sess.registry.Current()
	if !ok {
		return dto.SubmitOutput{}, apperrors.ErrSessionComplete
	}

	captured := content
	sess.submitting = true
	defer func() { sess.submitting = false }()

	feedback, err := sess.svc.api.SubmitAnswer(ctx, sess.interviewID, current.ID, captured)
	if err != nil {
		return dto.SubmitOutput{}, err
	}

	sess.feedback = &feedback
	sess.submittedText = captured

	if feedback.FollowUp != nil {
		sess.registry.SpliceFollowUp(*feedback.FollowUp)
	} else if set, err := sess.svc.api.Questions(ctx, sess.interviewID); err != nil {
		// Lossy fallback: keep the session moving on a failed re-fetch.
		sess.registry.MarkCurrentAnswered()
	} else {
		sess.registry.Resync(domain.Flatten(set.ByPhase, set.EncounterOrder))
	}

	sess.record(ctx, current, captured, feedback)

	return dto.SubmitOutput{
		Feedback:      toFeedback(feedback),
		SubmittedText: captured,
		Completed:     sess.registry.State() == domain.StateComplete,
	}, nil
}

// record projects the answered question into local history, best-effort.
func (sess *Session) record(ctx context.Context, q domain.Question, answer string, feedback domain.Feedback) {
	if sess.svc.transcripts == nil {
		return
	}
	_ = sess.svc.transcripts.RecordAnswer(ctx, interviewout.TranscriptRecord{
		InterviewID: sess.interviewID,
		QuestionID:  q.ID,
		Phase:       q.Phase,
		Sequence:    q.Sequence,
		Question:    q.Content,
		Answer:      answer,
		Feedback:    feedback.Feedback,
		Score:       feedback.Score,
		AnsweredAt:  sess.svc.clock.Now(),
	})
}

// Advance drops the held feedback and captured text, then moves the
// cursor. It reports false once the session is complete.
func (sess *Session) Advance() (dto.SessionSnapshot, bool) {
	sess.feedback = nil
	sess.submittedText = ""
	more := sess.registry.Advance()
	return sess.Snapshot(), more
}

// Snapshot renders the current registry and pipeline state for display.
func (sess *Session) Snapshot() dto.SessionSnapshot {
	answered := 0
	for _, q := range sess.registry.Questions() {
		if q.IsAnswered {
			answered++
		}
	}

	snap := dto.SessionSnapshot{
		State:         sess.registry.State().String(),
		Title:         sess.registry.Title(),
		Cursor:        sess.registry.Cursor(),
		Total:         sess.registry.Len(),
		AnsweredCount: answered,
		SubmittedText: sess.submittedText,
	}
	if current, ok := sess.registry.Current(); ok {
		snap.Current = toQuestion(current)
		snap.HasCurrent = true
	}
	if sess.feedback != nil {
		snap.Feedback = toFeedback(*sess.feedback)
		snap.HasFeedback = true
	}
	return snap
}

func toQuestion(q domain.Question) dto.Question {
	return dto.Question{
		ID:         q.ID,
		Content:    q.Content,
		Phase:      string(q.Phase),
		PhaseLabel: q.Phase.Label(),
		Sequence:   q.Sequence,
		IsFollowUp: q.IsFollowUp,
		IsAnswered: q.IsAnswered,
	}
}

func toFeedback(f domain.Feedback) dto.Feedback {
	return dto.Feedback{Score: f.Score, Feedback: f.Feedback, HasFollowUp: f.FollowUp != nil}
}
