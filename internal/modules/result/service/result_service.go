package service

import (
	"context"
	"fmt"

	"preview/internal/modules/result/domain"
	resultout "preview/internal/modules/result/port/out"
	"preview/internal/platform/clock"
)

// ResultService fetches interview reports and runs the staged loading
// screen around the fetch.
type ResultService struct {
	clock clock.Clock
	api   resultout.ResultAPI
	store resultout.ReportStore
}

func NewResultService(clock clock.Clock, api resultout.ResultAPI, store resultout.ReportStore) *ResultService {
	return &ResultService{clock: clock, api: api, store: store}
}

// Fetch retrieves the report from the server, caching it locally on
// success. When the server call fails and a cached copy exists, the
// cached copy is served instead; the second return reports that.
func (s *ResultService) Fetch(ctx context.Context, interviewID int64) (domain.Report, bool, error) {
	report, err := s.api.Fetch(ctx, interviewID)
	if err != nil {
		if s.store != nil {
			if cached, cacheErr := s.store.LoadReport(ctx, interviewID); cacheErr == nil {
				return cached, true, nil
			}
		}
		return domain.Report{}, false, fmt.Errorf("fetch result for interview %d: %w", interviewID, err)
	}
	if s.store != nil {
		// Best-effort cache; a failed save never fails the fetch.
		_ = s.store.SaveReport(ctx, report, s.clock.Now())
	}
	return report, false, nil
}

type fetchOutcome struct {
	report    domain.Report
	fromCache bool
	err       error
}

// Load runs Fetch behind the loading screen. The screen stays up at
// least MinLoadingDuration even when the fetch returns instantly, and
// keeps rotating messages while a slow fetch is in flight. onStage fires
// once up front and once per rotation; it may be nil.
func (s *ResultService) Load(ctx context.Context, interviewID int64, onStage func(msg domain.LoadingMessage, step, steps int)) (domain.Report, bool, error) {
	state := domain.NewLoadingState(s.clock.Now())
	notify := func() {
		if onStage != nil {
			onStage(state.Message(), state.Step(), state.Steps())
		}
	}
	notify()

	results := make(chan fetchOutcome, 1)
	go func() {
		report, fromCache, err := s.Fetch(ctx, interviewID)
		results <- fetchOutcome{report: report, fromCache: fromCache, err: err}
	}()

	// The minimum-duration timer is armed once so an early-settling fetch
	// comes down exactly at the minimum; the rotation timer is re-armed
	// only when it fires, keeping the cadence steady.
	minDone := s.clock.After(domain.MinLoadingDuration)
	rotate := s.clock.After(domain.MessageInterval)

	var outcome fetchOutcome
	for results != nil || minDone != nil {
		select {
		case <-ctx.Done():
			return domain.Report{}, false, ctx.Err()
		case outcome = <-results:
			results = nil
			state.SettleFetch()
		case <-minDone:
			minDone = nil
		case <-rotate:
			state.Tick()
			notify()
			rotate = s.clock.After(domain.MessageInterval)
		}
	}
	return outcome.report, outcome.fromCache, outcome.err
}

// ListReports returns the local report history.
func (s *ResultService) ListReports(ctx context.Context) ([]resultout.ReportSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	summaries, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local reports: %w", err)
	}
	return summaries, nil
}
