package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"preview/internal/modules/interview/domain"
	interviewout "preview/internal/modules/interview/port/out"
	"preview/internal/platform/httpx"
)

// APIClient talks to the interview endpoints through the token-renewing
// HTTP client.
type APIClient struct {
	http *httpx.Client
}

func NewAPIClient(client *httpx.Client) *APIClient {
	return &APIClient{http: client}
}

var _ interviewout.InterviewAPI = (*APIClient)(nil)

type interviewWire struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Type           string   `json:"type"`
	Position       string   `json:"position"`
	Level          string   `json:"level"`
	TechStacks     []string `json:"techStacks"`
	Status         string   `json:"status"`
	CurrentPhase   string   `json:"currentPhase"`
	TotalQuestions int      `json:"totalQuestions"`
}

type interviewPageWire struct {
	Content       []interviewWire `json:"content"`
	Number        int             `json:"number"`
	Size          int             `json:"size"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int64           `json:"totalElements"`
}

type createRequest struct {
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Position   string   `json:"position"`
	Level      string   `json:"level"`
	TechStacks []string `json:"techStacks"`
}

type questionWire struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	Phase      string `json:"phase"`
	Sequence   int    `json:"sequence"`
	IsFollowUp bool   `json:"isFollowUp"`
	ParentID   *int64 `json:"parentQuestionId"`
	IsAnswered bool   `json:"isAnswered"`
}

type questionListWire struct {
	InterviewID       int64           `json:"interviewId"`
	TotalCount        int             `json:"totalCount"`
	MainQuestionCount int             `json:"mainQuestionCount"`
	FollowUpCount     int             `json:"followUpCount"`
	QuestionsByPhase  json.RawMessage `json:"questionsByPhase"`
}

type answerRequest struct {
	Content string `json:"content"`
}

type answerWire struct {
	ID               int64         `json:"id"`
	QuestionID       int64         `json:"questionId"`
	QuestionContent  string        `json:"questionContent"`
	Phase            string        `json:"phase"`
	Content          string        `json:"content"`
	Feedback         string        `json:"feedback"`
	Score            int           `json:"score"`
	FollowUpQuestion *questionWire `json:"followUpQuestion"`
}

func (c *APIClient) List(ctx context.Context, page, size int) (interviewout.InterviewPage, error) {
	var wire interviewPageWire
	path := fmt.Sprintf("/interviews?page=%d&size=%d", page, size)
	if err := c.http.Get(ctx, path, &wire); err != nil {
		return interviewout.InterviewPage{}, err
	}
	items := make([]interviewout.InterviewMeta, 0, len(wire.Content))
	for _, iv := range wire.Content {
		items = append(items, toMeta(iv))
	}
	return interviewout.InterviewPage{
		Items:      items,
		Page:       wire.Number,
		Size:       wire.Size,
		TotalPages: wire.TotalPages,
		TotalCount: wire.TotalElements,
	}, nil
}

func (c *APIClient) Create(ctx context.Context, spec interviewout.CreateSpec) (interviewout.InterviewMeta, error) {
	body := createRequest{
		Title:      spec.Title,
		Type:       spec.Type,
		Position:   spec.Position,
		Level:      spec.Level,
		TechStacks: spec.TechStacks,
	}
	var wire interviewWire
	if err := c.http.Post(ctx, "/interviews", body, &wire); err != nil {
		return interviewout.InterviewMeta{}, err
	}
	return toMeta(wire), nil
}

func (c *APIClient) Get(ctx context.Context, id int64) (interviewout.InterviewMeta, error) {
	var wire interviewWire
	if err := c.http.Get(ctx, fmt.Sprintf("/interviews/%d", id), &wire); err != nil {
		return interviewout.InterviewMeta{}, err
	}
	return toMeta(wire), nil
}

func (c *APIClient) Start(ctx context.Context, id int64) error {
	return c.http.Post(ctx, fmt.Sprintf("/interviews/%d/start", id), nil, nil)
}

func (c *APIClient) Delete(ctx context.Context, id int64) error {
	return c.http.Delete(ctx, fmt.Sprintf("/interviews/%d", id))
}

func (c *APIClient) Questions(ctx context.Context, id int64) (interviewout.QuestionSet, error) {
	var wire questionListWire
	if err := c.http.Get(ctx, fmt.Sprintf("/interviews/%d/questions", id), &wire); err != nil {
		return interviewout.QuestionSet{}, err
	}
	return decodeQuestionSet(wire.QuestionsByPhase)
}

func (c *APIClient) SubmitAnswer(ctx context.Context, interviewID, questionID int64, content string) (domain.Feedback, error) {
	path := fmt.Sprintf("/interviews/%d/questions/%d/answers", interviewID, questionID)
	var wire answerWire
	if err := c.http.Post(ctx, path, answerRequest{Content: content}, &wire); err != nil {
		return domain.Feedback{}, err
	}
	feedback := domain.Feedback{Score: wire.Score, Feedback: wire.Feedback}
	if wire.FollowUpQuestion != nil {
		q := toQuestion(*wire.FollowUpQuestion)
		feedback.FollowUp = &q
	}
	return feedback, nil
}

// decodeQuestionSet walks the questionsByPhase object token by token so
// the order the server emitted the phase keys in survives. A plain map
// decode would lose it, and flattening appends unknown phases in
// encounter order.
func decodeQuestionSet(raw json.RawMessage) (interviewout.QuestionSet, error) {
	set := interviewout.QuestionSet{ByPhase: map[domain.Phase][]domain.Question{}}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return set, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return interviewout.QuestionSet{}, fmt.Errorf("decode questions by phase: %w", err)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return interviewout.QuestionSet{}, fmt.Errorf("decode questions by phase: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return interviewout.QuestionSet{}, fmt.Errorf("decode questions by phase: unexpected key %v", keyTok)
		}
		var wires []questionWire
		if err := dec.Decode(&wires); err != nil {
			return interviewout.QuestionSet{}, fmt.Errorf("decode questions for phase %s: %w", key, err)
		}

		phase := domain.Phase(key)
		questions := make([]domain.Question, 0, len(wires))
		for _, w := range wires {
			questions = append(questions, toQuestion(w))
		}
		set.EncounterOrder = append(set.EncounterOrder, phase)
		set.ByPhase[phase] = questions
	}
	return set, nil
}

func toMeta(wire interviewWire) interviewout.InterviewMeta {
	return interviewout.InterviewMeta{
		ID:             wire.ID,
		Title:          wire.Title,
		Type:           wire.Type,
		Position:       wire.Position,
		Level:          wire.Level,
		TechStacks:     wire.TechStacks,
		Status:         wire.Status,
		CurrentPhase:   wire.CurrentPhase,
		TotalQuestions: wire.TotalQuestions,
	}
}

func toQuestion(wire questionWire) domain.Question {
	q := domain.Question{
		ID:         wire.ID,
		Content:    wire.Content,
		Phase:      domain.Phase(wire.Phase),
		Sequence:   wire.Sequence,
		IsFollowUp: wire.IsFollowUp,
		IsAnswered: wire.IsAnswered,
	}
	if wire.ParentID != nil {
		q.ParentID = *wire.ParentID
	}
	return q
}
