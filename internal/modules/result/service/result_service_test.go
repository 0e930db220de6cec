package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"preview/internal/modules/result/domain"
	resultout "preview/internal/modules/result/port/out"
)

// steppingClock advances its notion of now every time a timer is asked
// for, so loops waiting on After make progress without real sleeps.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Unix(1700000000, 0).UTC()}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

type fakeResultAPI struct {
	report domain.Report
	err    error
	calls  int
}

func (f *fakeResultAPI) Fetch(context.Context, int64) (domain.Report, error) {
	f.calls++
	if f.err != nil {
		return domain.Report{}, f.err
	}
	return f.report, nil
}

type fakeReportStore struct {
	saved   map[int64]domain.Report
	saveErr error
	loadErr error
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{saved: map[int64]domain.Report{}}
}

func (f *fakeReportStore) SaveReport(_ context.Context, report domain.Report, _ time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[report.InterviewID] = report
	return nil
}

func (f *fakeReportStore) LoadReport(_ context.Context, interviewID int64) (domain.Report, error) {
	if f.loadErr != nil {
		return domain.Report{}, f.loadErr
	}
	report, ok := f.saved[interviewID]
	if !ok {
		return domain.Report{}, errors.New("not cached")
	}
	return report, nil
}

func (f *fakeReportStore) ListReports(context.Context) ([]resultout.ReportSummary, error) {
	var out []resultout.ReportSummary
	for id, report := range f.saved {
		out = append(out, resultout.ReportSummary{InterviewID: id, Title: report.Title})
	}
	return out, nil
}

func TestFetchCachesReportLocally(t *testing.T) {
	t.Parallel()

	api := &fakeResultAPI{report: domain.Report{InterviewID: 5, Title: "Backend Mock", AverageScore: 82.5}}
	store := newFakeReportStore()
	svc := NewResultService(newSteppingClock(), api, store)

	report, fromCache, err := svc.Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fromCache {
		t.Fatal("fresh fetch reported as cached")
	}
	if report.Title != "Backend Mock" {
		t.Fatalf("report = %+v", report)
	}
	if _, ok := store.saved[5]; !ok {
		t.Fatal("report not cached after fetch")
	}
}

func TestFetchServesCacheWhenServerFails(t *testing.T) {
	t.Parallel()

	store := newFakeReportStore()
	store.saved[5] = domain.Report{InterviewID: 5, Title: "Cached Copy"}
	api := &fakeResultAPI{err: errors.New("server down")}
	svc := NewResultService(newSteppingClock(), api, store)

	report, fromCache, err := svc.Fetch(context.Background(), 5)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !fromCache || report.Title != "Cached Copy" {
		t.Fatalf("report = %+v, fromCache = %v", report, fromCache)
	}
}

func TestFetchFailurePropagatesWithoutCache(t *testing.T) {
	t.Parallel()

	api := &fakeResultAPI{err: errors.New("server down")}
	svc := NewResultService(newSteppingClock(), api, newFakeReportStore())

	if _, _, err := svc.Fetch(context.Background(), 5); err == nil {
		t.Fatal("want error when the server fails and nothing is cached")
	}
}

func TestFetchSurvivesCacheSaveFailure(t *testing.T) {
	t.Parallel()

	api := &fakeResultAPI{report: domain.Report{InterviewID: 5}}
	store := newFakeReportStore()
	store.saveErr = errors.New("disk full")
	svc := NewResultService(newSteppingClock(), api, store)

	if _, _, err := svc.Fetch(context.Background(), 5); err != nil {
		t.Fatalf("Fetch must not surface cache save failures: %v", err)
	}
}

func TestLoadHoldsMinimumDurationAndRotatesMessages(t *testing.T) {
	t.Parallel()

	clk := newSteppingClock()
	started := clk.Now()
	api := &fakeResultAPI{report: domain.Report{InterviewID: 5, Title: "Report"}}
	svc := NewResultService(clk, api, nil)

	var stages []int
	report, fromCache, err := svc.Load(context.Background(), 5, func(msg domain.LoadingMessage, step, steps int) {
		if msg.Title == "" || steps != len(domain.LoadingMessages) {
			t.Errorf("stage = %+v (%d/%d)", msg, step, steps)
		}
		stages = append(stages, step)
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fromCache || report.Title != "Report" {
		t.Fatalf("report = %+v, fromCache = %v", report, fromCache)
	}
	if len(stages) == 0 || stages[0] != 1 {
		t.Fatalf("stages = %v, want the first stage up front", stages)
	}
	for i := 1; i < len(stages); i++ {
		if stages[i] < stages[i-1] {
			t.Fatalf("stages went backwards: %v", stages)
		}
	}
	if elapsed := clk.Now().Sub(started); elapsed < domain.MinLoadingDuration {
		t.Fatalf("loading came down after %v, want at least %v", elapsed, domain.MinLoadingDuration)
	}
}

func TestLoadReturnsFetchError(t *testing.T) {
	t.Parallel()

	api := &fakeResultAPI{err: errors.New("server down")}
	svc := NewResultService(newSteppingClock(), api, nil)

	if _, _, err := svc.Load(context.Background(), 5, nil); err == nil {
		t.Fatal("want fetch error surfaced after the loading screen")
	}
}

func TestLoadStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A clock whose timers never fire forces Load onto the ctx branch.
	svc := NewResultService(&frozenClock{}, &fakeResultAPI{err: context.Canceled}, nil)
	if _, _, err := svc.Load(ctx, 5, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type frozenClock struct{}

func (frozenClock) Now() time.Time { return time.Unix(1700000000, 0).UTC() }

func (frozenClock) After(time.Duration) <-chan time.Time {
	return make(chan time.Time)
}

// manualClock hands out timers that fire only when the test says so.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0).UTC()}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.timers = append(c.timers, ch)
	return ch
}

func (c *manualClock) timerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *manualClock) waitTimerCount(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for c.timerCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timer count stuck at %d, want %d", c.timerCount(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func (c *manualClock) fire(i int, d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	at := c.now
	ch := c.timers[i]
	c.mu.Unlock()
	ch <- at
}

type blockingResultAPI struct {
	release chan struct{}
	report  domain.Report
}

func (f *blockingResultAPI) Fetch(context.Context, int64) (domain.Report, error) {
	<-f.release
	return f.report, nil
}

func TestLoadComesDownAtMinimumWhenFetchSettlesEarly(t *testing.T) {
	t.Parallel()

	clk := newManualClock()
	release := make(chan struct{})
	api := &blockingResultAPI{release: release, report: domain.Report{InterviewID: 5, Title: "Report"}}
	svc := NewResultService(clk, api, nil)

	type loadResult struct {
		report domain.Report
		err    error
	}
	done := make(chan loadResult, 1)
	go func() {
		report, _, err := svc.Load(context.Background(), 5, nil)
		done <- loadResult{report: report, err: err}
	}()

	// Minimum-duration timer and rotation timer, both armed up front.
	clk.waitTimerCount(t, 2)
	close(release)

	// The fetch has settled; firing the minimum-duration timer must bring
	// the screen down without waiting on any freshly armed interval.
	clk.fire(0, domain.MinLoadingDuration)

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Load: %v", res.err)
		}
		if res.report.Title != "Report" {
			t.Fatalf("report = %+v", res.report)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loading screen held past the minimum after the fetch settled")
	}

	if n := clk.timerCount(); n != 2 {
		t.Fatalf("timers armed = %d, want only the up-front pair", n)
	}
}
