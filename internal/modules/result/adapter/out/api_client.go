package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"preview/internal/modules/result/domain"
	resultout "preview/internal/modules/result/port/out"
	"preview/internal/platform/httpx"
)

// APIClient fetches aggregated results through the token-renewing HTTP
// client.
type APIClient struct {
	http *httpx.Client
}

func NewAPIClient(client *httpx.Client) *APIClient {
	return &APIClient{http: client}
}

var _ resultout.ResultAPI = (*APIClient)(nil)

type entryWire struct {
	QuestionID int64   `json:"questionId"`
	Sequence   int     `json:"sequence"`
	Phase      string  `json:"phase"`
	Question   string  `json:"question"`
	Answer     *string `json:"answer"`
	Feedback   *string `json:"feedback"`
	Score      *int    `json:"score"`
}

type aiReportWire struct {
	Summary           string   `json:"summary"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	RecommendedTopics []string `json:"recommendedTopics"`
	OverallScore      int      `json:"overallScore"`
}

type resultWire struct {
	InterviewID            int64           `json:"interviewId"`
	Title                  string          `json:"title"`
	Type                   string          `json:"type"`
	Position               string          `json:"position"`
	TechStacks             []string        `json:"techStacks"`
	CreatedAt              string          `json:"createdAt"`
	TotalQuestions         int             `json:"totalQuestions"`
	AnsweredQuestions      int             `json:"answeredQuestions"`
	AverageScore           float64         `json:"averageScore"`
	QuestionAnswersByPhase json.RawMessage `json:"questionAnswersByPhase"`
	AIReport               *aiReportWire   `json:"aiReport"`
}

func (c *APIClient) Fetch(ctx context.Context, interviewID int64) (domain.Report, error) {
	var wire resultWire
	if err := c.http.Get(ctx, fmt.Sprintf("/interviews/%d/result", interviewID), &wire); err != nil {
		return domain.Report{}, err
	}
	return toReport(wire)
}

func toReport(wire resultWire) (domain.Report, error) {
	report := domain.Report{
		InterviewID:       wire.InterviewID,
		Title:             wire.Title,
		Type:              wire.Type,
		Position:          wire.Position,
		TechStacks:        wire.TechStacks,
		TotalQuestions:    wire.TotalQuestions,
		AnsweredQuestions: wire.AnsweredQuestions,
		AverageScore:      wire.AverageScore,
	}
	// The server emits zone-less local timestamps.
	if ts, err := time.Parse("2006-01-02T15:04:05", wire.CreatedAt); err == nil {
		report.CreatedAt = ts
	}
	phases, err := decodePhaseGroups(wire.QuestionAnswersByPhase)
	if err != nil {
		return domain.Report{}, err
	}
	report.Phases = phases
	domain.SortPhaseGroups(report.Phases)
	if wire.AIReport != nil {
		report.AIReport = domain.AIReport{
			Summary:           wire.AIReport.Summary,
			Strengths:         wire.AIReport.Strengths,
			Improvements:      wire.AIReport.Improvements,
			RecommendedTopics: wire.AIReport.RecommendedTopics,
			OverallScore:      wire.AIReport.OverallScore,
		}
		report.HasAIReport = true
	}
	return report, nil
}

// decodePhaseGroups walks the object token by token so phase groups keep
// the server's key order; a map decode would lose it.
func decodePhaseGroups(raw json.RawMessage) ([]domain.PhaseGroup, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, fmt.Errorf("decode answers by phase: %w", err)
	}
	var groups []domain.PhaseGroup
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode answers by phase: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode answers by phase: unexpected key %v", keyTok)
		}
		var wires []entryWire
		if err := dec.Decode(&wires); err != nil {
			return nil, fmt.Errorf("decode answers for phase %s: %w", key, err)
		}

		group := domain.PhaseGroup{Phase: key, Label: domain.PhaseLabel(key)}
		for _, e := range wires {
			entry := domain.Entry{
				QuestionID: e.QuestionID,
				Sequence:   e.Sequence,
				Question:   e.Question,
				Answered:   e.Answer != nil,
			}
			if e.Answer != nil {
				entry.Answer = *e.Answer
			}
			if e.Feedback != nil {
				entry.Feedback = *e.Feedback
			}
			if e.Score != nil {
				entry.Score = *e.Score
			}
			group.Entries = append(group.Entries, entry)
		}
		groups = append(groups, group)
	}
	return groups, nil
}
