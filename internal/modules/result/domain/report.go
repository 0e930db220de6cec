package domain

import (
	"sort"
	"time"
)

// Entry is one question with its answer and feedback, as aggregated by
// the server. Unanswered questions appear with Answered false.
type Entry struct {
	QuestionID int64
	Sequence   int
	Question   string
	Answer     string
	Feedback   string
	Score      int
	Answered   bool
}

// PhaseGroup is the per-phase bucket of report entries.
type PhaseGroup struct {
	Phase   string
	Label   string
	Entries []Entry
}

// AIReport is the synthesized overall evaluation. It can be absent when
// generation has not finished.
type AIReport struct {
	Summary           string
	Strengths         []string
	Improvements      []string
	RecommendedTopics []string
	OverallScore      int
}

// Report is the full interview result.
type Report struct {
	InterviewID       int64
	Title             string
	Type              string
	Position          string
	TechStacks        []string
	CreatedAt         time.Time
	TotalQuestions    int
	AnsweredQuestions int
	AverageScore      float64
	Phases            []PhaseGroup
	AIReport          AIReport
	HasAIReport       bool
}

// PhaseLabel returns the display label for a phase, falling back to the
// raw value for phases the client does not know.
func PhaseLabel(phase string) string {
	switch phase {
	case "OPENING":
		return "Opening"
	case "TECHNICAL":
		return "Technical"
	case "PERSONALITY":
		return "Personality"
	case "CLOSING":
		return "Closing"
	default:
		return phase
	}
}

// phaseRank orders the fixed stages; anything else sorts after them.
var phaseRank = map[string]int{
	"OPENING":     0,
	"TECHNICAL":   1,
	"PERSONALITY": 2,
	"CLOSING":     3,
}

// SortPhaseGroups orders groups by the canonical stage sequence, keeping
// unknown phases after the known ones in their incoming order. Entries
// inside each group sort by ascending sequence.
func SortPhaseGroups(groups []PhaseGroup) {
	sort.SliceStable(groups, func(a, b int) bool {
		ra, aKnown := phaseRank[groups[a].Phase]
		rb, bKnown := phaseRank[groups[b].Phase]
		switch {
		case aKnown && bKnown:
			return ra < rb
		case aKnown:
			return true
		default:
			return false
		}
	})
	for _, group := range groups {
		entries := group.Entries
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Sequence < entries[b].Sequence
		})
	}
}
