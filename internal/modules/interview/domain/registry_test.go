package domain_test

import (
	"testing"

	"preview/internal/modules/interview/domain"
)

func TestInitializeCursorAtFirstUnanswered(t *testing.T) {
	t.Parallel()
	// 2 OPENING (seq 1,2) + 1 TECHNICAL (seq 1), all unanswered.
	flat := domain.Flatten(map[domain.Phase][]domain.Question{
		domain.PhaseTechnical: {q(3, domain.PhaseTechnical, 1, false)},
		domain.PhaseOpening:   {q(1, domain.PhaseOpening, 1, false), q(2, domain.PhaseOpening, 2, false)},
	}, []domain.Phase{domain.PhaseTechnical, domain.PhaseOpening})

	r := domain.NewRegistry()
	r.Initialize("Backend mock", flat)

	if !sameIDs(ids(r.Questions()), 1, 2, 3) {
		t.Fatalf("unexpected flattened order: %v", ids(r.Questions()))
	}
	if r.Cursor() != 0 || r.State() != domain.StateReady {
		t.Fatalf("expected cursor 0 in ready state, got cursor=%d state=%s", r.Cursor(), r.State())
	}
}

func TestInitializeSkipsAnsweredPrefix(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{
		q(1, domain.PhaseOpening, 1, true),
		q(2, domain.PhaseOpening, 2, false),
	})
	if r.Cursor() != 1 {
		t.Fatalf("expected cursor at first unanswered, got %d", r.Cursor())
	}
}

func TestInitializeAllAnsweredGoesStraightToComplete(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{
		q(1, domain.PhaseOpening, 1, true),
		q(2, domain.PhaseOpening, 2, true),
	})
	if r.State() != domain.StateComplete {
		t.Fatalf("expected complete without ever being ready, got %s", r.State())
	}
}

func TestInitializeEmptyListIsNoQuestionsNotComplete(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", nil)
	if r.State() != domain.StateNoQuestions {
		t.Fatalf("expected no-questions terminal state, got %s", r.State())
	}
	if _, ok := r.Current(); ok {
		t.Fatal("no current question should be exposed")
	}
}

func TestSpliceFollowUpInsertsAtCursorPlusOne(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{
		q(1, domain.PhaseOpening, 1, false),
		q(2, domain.PhaseOpening, 2, false),
	})

	r.SpliceFollowUp(domain.Question{ID: 99, IsFollowUp: true, ParentID: 1})

	if r.Len() != 3 {
		t.Fatalf("expected list to grow by exactly 1, got len %d", r.Len())
	}
	if !sameIDs(ids(r.Questions()), 1, 99, 2) {
		t.Fatalf("follow-up must sit at cursor+1, got %v", ids(r.Questions()))
	}
	if !r.Questions()[0].IsAnswered {
		t.Fatal("current entry must be marked answered in place")
	}

	// The follow-up becomes the next question the user advances to.
	if !r.Advance() {
		t.Fatal("advance should continue the session")
	}
	current, ok := r.Current()
	if !ok || current.ID != 99 {
		t.Fatalf("expected follow-up under cursor, got %+v", current)
	}
}

func TestAdvancePastEndSignalsComplete(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{q(1, domain.PhaseOpening, 1, false)})
	r.MarkCurrentAnswered()

	if r.Advance() {
		t.Fatal("advance past the last question must signal completion")
	}
	if r.State() != domain.StateComplete {
		t.Fatalf("expected complete, got %s", r.State())
	}
}

func TestResyncAllAnsweredCompletesWithoutReady(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{q(1, domain.PhaseOpening, 1, false)})

	r.Resync([]domain.Question{q(1, domain.PhaseOpening, 1, true)})

	if r.State() != domain.StateComplete {
		t.Fatalf("expected completion signal after resync, got %s", r.State())
	}
}

func TestResyncPicksUpServerPhaseTransition(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{q(1, domain.PhaseOpening, 1, false)})

	r.Resync([]domain.Question{
		q(1, domain.PhaseOpening, 1, true),
		q(2, domain.PhaseTechnical, 1, false),
	})

	if r.State() != domain.StateReviewing {
		t.Fatalf("expected reviewing state while feedback shows, got %s", r.State())
	}
	if r.Len() != 2 {
		t.Fatalf("expected new server question merged in, got len %d", r.Len())
	}
	if !r.Advance() {
		t.Fatal("expected a next question after the phase transition")
	}
	current, _ := r.Current()
	if current.ID != 2 {
		t.Fatalf("expected cursor on the new question, got %+v", current)
	}
}

func TestCursorNeverPastEndWhileReady(t *testing.T) {
	t.Parallel()
	r := domain.NewRegistry()
	r.Initialize("t", []domain.Question{
		q(1, domain.PhaseOpening, 1, false),
		q(2, domain.PhaseOpening, 2, false),
	})
	for r.State() == domain.StateReady {
		if r.Cursor() >= r.Len() {
			t.Fatalf("cursor %d out of range (len %d)", r.Cursor(), r.Len())
		}
		r.MarkCurrentAnswered()
		r.Advance()
	}
}
