package dto

import "time"

type Entry struct {
	QuestionID int64
	Sequence   int
	Question   string
	Answer     string
	Feedback   string
	Score      int
	Answered   bool
}

type PhaseGroup struct {
	Phase   string
	Label   string
	Entries []Entry
}

type AIReport struct {
	Summary           string
	Strengths         []string
	Improvements      []string
	RecommendedTopics []string
	OverallScore      int
}

type ReportOutput struct {
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
	FromCache         bool
}

// ReportSummary is one line of the local report history.
type ReportSummary struct {
	InterviewID  int64
	Title        string
	AverageScore float64
	SavedAt      time.Time
}

// LoadingStage is one snapshot of the loading screen.
type LoadingStage struct {
	Title    string
	Subtitle string
	Step     int
	Steps    int
}
