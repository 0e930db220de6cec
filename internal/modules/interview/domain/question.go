package domain

import "sort"

// Phase is a fixed stage of the interview. Question ordering concatenates
// phases in canonical order; phases the client does not know are kept
// after the canonical ones, in encounter order.
type Phase string

const (
	PhaseOpening     Phase = "OPENING"
	PhaseTechnical   Phase = "TECHNICAL"
	PhasePersonality Phase = "PERSONALITY"
	PhaseClosing     Phase = "CLOSING"
)

// PhaseOrder is the canonical ascending phase sequence.
var PhaseOrder = []Phase{PhaseOpening, PhaseTechnical, PhasePersonality, PhaseClosing}

// Label returns a short human label for the phase badge.
func (p Phase) Label() string {
	switch p {
	case PhaseOpening:
		return "Opening"
	case PhaseTechnical:
		return "Technical"
	case PhasePersonality:
		return "Personality"
	case PhaseClosing:
		return "Closing"
	default:
		return string(p)
	}
}

// Question is a server-owned question. IsAnswered is optimistic client
// state that must eventually agree with server truth.
type Question struct {
	ID         int64
	Content    string
	Phase      Phase
	Sequence   int
	IsFollowUp bool
	ParentID   int64
	IsAnswered bool
}

// Feedback is the per-answer AI evaluation, held only until the user
// advances to the next question.
type Feedback struct {
	Score    int
	Feedback string
	FollowUp *Question
}

// Flatten linearizes a phase-grouped question set: canonical phases in
// fixed order, each bucket sorted by ascending sequence, then any unknown
// phases appended in encounter order. encounterOrder preserves the map's
// original key order for the unknown-phase tail.
func Flatten(byPhase map[Phase][]Question, encounterOrder []Phase) []Question {
	var flat []Question

	appendBucket := func(phase Phase) {
		bucket, ok := byPhase[phase]
		if !ok {
			return
		}
		sorted := make([]Question, len(bucket))
		copy(sorted, bucket)
		sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Sequence < sorted[b].Sequence })
		flat = append(flat, sorted...)
	}

	for _, phase := range PhaseOrder {
		appendBucket(phase)
	}

	canonical := make(map[Phase]bool, len(PhaseOrder))
	for _, phase := range PhaseOrder {
		canonical[phase] = true
	}
	for _, phase := range encounterOrder {
		if !canonical[phase] {
			appendBucket(phase)
		}
	}
	return flat
}

// Reconcile merges a fresh server fetch into the local list: server truth
// wins for per-question state (IsAnswered and content), local truth wins
// for insertion order, so locally spliced follow-ups the server has not
// echoed back stay where the user saw them. Server-side additions (phase
// transitions generating new questions) are appended in fetched order.
func Reconcile(local, fetched []Question) []Question {
	byID := make(map[int64]Question, len(fetched))
	for _, q := range fetched {
		byID[q.ID] = q
	}

	merged := make([]Question, 0, len(fetched))
	seen := make(map[int64]bool, len(local))
	for _, q := range local {
		seen[q.ID] = true
		if server, ok := byID[q.ID]; ok {
			merged = append(merged, server)
		} else {
			merged = append(merged, q)
		}
	}
	for _, q := range fetched {
		if !seen[q.ID] {
			merged = append(merged, q)
		}
	}
	return merged
}

// AllAnswered reports whether every question in the list is answered.
// An empty list is not "all answered"; it is the no-questions condition.
func AllAnswered(questions []Question) bool {
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if !q.IsAnswered {
			return false
		}
	}
	return true
}

// FirstUnanswered returns the index of the first unanswered question, or
// -1 when none remains.
func FirstUnanswered(questions []Question) int {
	for i, q := range questions {
		if !q.IsAnswered {
			return i
		}
	}
	return -1
}
