package usecase

import (
	"context"

	"preview/internal/modules/result/domain"
	"preview/internal/modules/result/dto"
	resultin "preview/internal/modules/result/port/in"
	"preview/internal/modules/result/service"
)

type Interactor struct {
	svc *service.ResultService
}

func NewInteractor(svc *service.ResultService) *Interactor {
	return &Interactor{svc: svc}
}

var _ resultin.Usecase = (*Interactor)(nil)

func (i *Interactor) Fetch(ctx context.Context, interviewID int64) (dto.ReportOutput, error) {
	report, fromCache, err := i.svc.Fetch(ctx, interviewID)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toReport(report, fromCache), nil
}

func (i *Interactor) Load(ctx context.Context, interviewID int64, onStage func(dto.LoadingStage)) (dto.ReportOutput, error) {
	var stage func(domain.LoadingMessage, int, int)
	if onStage != nil {
		stage = func(msg domain.LoadingMessage, step, steps int) {
			onStage(dto.LoadingStage{Title: msg.Title, Subtitle: msg.Subtitle, Step: step, Steps: steps})
		}
	}
	report, fromCache, err := i.svc.Load(ctx, interviewID, stage)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toReport(report, fromCache), nil
}

func (i *Interactor) ListLocalReports(ctx context.Context) ([]dto.ReportSummary, error) {
	summaries, err := i.svc.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.ReportSummary{
			InterviewID:  s.InterviewID,
			Title:        s.Title,
			AverageScore: s.AverageScore,
			SavedAt:      s.SavedAt,
		})
	}
	return out, nil
}

func toReport(report domain.Report, fromCache bool) dto.ReportOutput {
	phases := make([]dto.PhaseGroup, 0, len(report.Phases))
	for _, group := range report.Phases {
		entries := make([]dto.Entry, 0, len(group.Entries))
		for _, e := range group.Entries {
			entries = append(entries, dto.Entry{
				QuestionID: e.QuestionID,
				Sequence:   e.Sequence,
				Question:   e.Question,
				Answer:     e.Answer,
				Feedback:   e.Feedback,
				Score:      e.Score,
				Answered:   e.Answered,
			})
		}
		phases = append(phases, dto.PhaseGroup{Phase: group.Phase, Label: group.Label, Entries: entries})
	}
	return dto.ReportOutput{
		InterviewID:       report.InterviewID,
		Title:             report.Title,
		Type:              report.Type,
		Position:          report.Position,
		TechStacks:        report.TechStacks,
		CreatedAt:         report.CreatedAt,
		TotalQuestions:    report.TotalQuestions,
		AnsweredQuestions: report.AnsweredQuestions,
		AverageScore:      report.AverageScore,
		Phases:            phases,
		AIReport: dto.AIReport{
			Summary:           report.AIReport.Summary,
			Strengths:         report.AIReport.Strengths,
			Improvements:      report.AIReport.Improvements,
			RecommendedTopics: report.AIReport.RecommendedTopics,
			OverallScore:      report.AIReport.OverallScore,
		},
		HasAIReport: report.HasAIReport,
		FromCache:   fromCache,
	}
}
