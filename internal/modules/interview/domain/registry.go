package domain

// State is the session registry's position in its lifecycle.
type State int

const (
	// StateLoading: the question set has not been fetched yet.
	StateLoading State = iota
	// StateReady: the cursor points at an unanswered question awaiting input.
	StateReady
	// StateReviewing: feedback for the current question is on display.
	StateReviewing
	// StateComplete: every question is answered; the caller routes to the
	// result view.
	StateComplete
	// StateNoQuestions: the server returned an empty set. Terminal, and
	// distinct from StateComplete.
	StateNoQuestions
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateReviewing:
		return "reviewing"
	case StateComplete:
		return "complete"
	case StateNoQuestions:
		return "no-questions"
	default:
		return "unknown"
	}
}

// Registry linearizes the phase-grouped question set and tracks the
// cursor through it. While the state is Ready or Reviewing the cursor
// never points past the end of the list.
type Registry struct {
	title     string
	questions []Question
	cursor    int
	state     State
}

func NewRegistry() *Registry {
	return &Registry{state: StateLoading}
}

// Initialize installs the first fetch. When every question is already
// answered the registry lands directly in Complete without ever exposing
// Ready; an empty set lands in NoQuestions.
func (r *Registry) Initialize(title string, flat []Question) {
	r.title = title
	r.questions = flat

	switch {
	case len(flat) == 0:
		r.cursor = 0
		r.state = StateNoQuestions
	case AllAnswered(flat):
		r.cursor = len(flat) - 1
		r.state = StateComplete
	default:
		r.cursor = FirstUnanswered(flat)
		r.state = StateReady
	}
}

// Resync merges a re-fetched list into the local one. The cursor index is
// preserved: Reconcile keeps local ordering for known questions, so the
// entry under the cursor does not move. If the merged list is fully
// answered the registry transitions to Complete.
func (r *Registry) Resync(fetched []Question) {
	r.questions = Reconcile(r.questions, fetched)
	if AllAnswered(r.questions) {
		r.state = StateComplete
		return
	}
	r.state = StateReviewing
}

// MarkCurrentAnswered is the lossy fallback when a re-fetch fails: only
// the current entry flips locally.
func (r *Registry) MarkCurrentAnswered() {
	if r.cursor < len(r.questions) {
		r.questions[r.cursor].IsAnswered = true
	}
	r.state = StateReviewing
}

// SpliceFollowUp marks the current entry answered in place and inserts the
// follow-up immediately after the cursor, making it the next question the
// user advances to. No re-fetch happens on this path.
func (r *Registry) SpliceFollowUp(followUp Question) {
	if r.cursor >= len(r.questions) {
		return
	}
	r.questions[r.cursor].IsAnswered = true

	updated := make([]Question, 0, len(r.questions)+1)
	updated = append(updated, r.questions[:r.cursor+1]...)
	updated = append(updated, followUp)
	updated = append(updated, r.questions[r.cursor+1:]...)
	r.questions = updated
	r.state = StateReviewing
}

// Advance moves the cursor to the next entry, or transitions to Complete
// when the cursor would run past the end. It reports whether the session
// keeps going.
func (r *Registry) Advance() bool {
	if r.cursor+1 < len(r.questions) {
		r.cursor++
		r.state = StateReady
		return true
	}
	r.state = StateComplete
	return false
}

func (r *Registry) Title() string { return r.title }

func (r *Registry) State() State { return r.state }

func (r *Registry) Cursor() int { return r.cursor }

func (r *Registry) Len() int { return len(r.questions) }

// Current returns the question under the cursor.
func (r *Registry) Current() (Question, bool) {
	if r.state == StateLoading || r.state == StateNoQuestions || r.cursor >= len(r.questions) {
		return Question{}, false
	}
	return r.questions[r.cursor], true
}

// Questions returns a copy of the flattened list.
func (r *Registry) Questions() []Question {
	out := make([]Question, len(r.questions))
	copy(out, r.questions)
	return out
}
