package dto

import "time"

type Interview struct {
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
	Items      []Interview
	Page       int
	Size       int
	TotalPages int
	TotalCount int64
}

type CreateInput struct {
	Title      string
	Type       string
	Position   string
	Level      string
	TechStacks []string
}

type Question struct {
	ID         int64
	Content    string
	Phase      string
	PhaseLabel string
	Sequence   int
	IsFollowUp bool
	IsAnswered bool
}

type Feedback struct {
	Score       int
	Feedback    string
	HasFollowUp bool
}

// SessionSnapshot is a read-only view of the registry for rendering.
type SessionSnapshot struct {
	State         string
	Title         string
	Cursor        int
	Total         int
	AnsweredCount int
	Current       Question
	HasCurrent    bool
	Feedback      Feedback
	HasFeedback   bool
	SubmittedText string
}

// SubmitOutput reports one pipeline invocation. Completed means every
// question is now answered and the caller must route to the result view.
type SubmitOutput struct {
	Feedback      Feedback
	SubmittedText string
	Completed     bool
}

type TranscriptEntry struct {
	InterviewID int64
	QuestionID  int64
	Phase       string
	Sequence    int
	Question    string
	Answer      string
	Feedback    string
	Score       int
	AnsweredAt  time.Time
}
