package domain

import "time"

// LoadingMessage is one stage caption shown while the report loads.
type LoadingMessage struct {
	Title    string
	Subtitle string
}

// LoadingMessages are shown in order while the report is fetched, one per
// tick. The rotation parks on the last message instead of wrapping.
var LoadingMessages = []LoadingMessage{
	{Title: "Collecting your interview responses...", Subtitle: "This will only take a moment"},
	{Title: "The AI is analyzing your answers...", Subtitle: "Preparing feedback for each question"},
	{Title: "Identifying strengths and improvements...", Subtitle: "Almost there!"},
	{Title: "Generating tailored model answers...", Subtitle: "Putting the final report together"},
}

// MinLoadingDuration is the floor on how long the loading screen stays
// up, so a fast response does not flash it away.
const MinLoadingDuration = 2000 * time.Millisecond

// MessageInterval is how often the rotation advances.
const MessageInterval = 2000 * time.Millisecond

// LoadingState tracks the report loading screen: message rotation on one
// timer, the fetch settling on another, and a minimum display duration
// joining the two. The state only changes through Tick and SettleFetch;
// time is always passed in.
type LoadingState struct {
	startedAt    time.Time
	messageIdx   int
	fetchSettled bool
}

func NewLoadingState(now time.Time) *LoadingState {
	return &LoadingState{startedAt: now}
}

// Tick advances the message rotation, parking on the last message.
func (s *LoadingState) Tick() {
	if s.messageIdx < len(LoadingMessages)-1 {
		s.messageIdx++
	}
}

// SettleFetch records that the fetch finished, in success or failure.
// The screen still waits out MinLoadingDuration.
func (s *LoadingState) SettleFetch() {
	s.fetchSettled = true
}

// Done reports whether the loading screen may come down: the fetch has
// settled and the minimum display time has passed.
func (s *LoadingState) Done(now time.Time) bool {
	return s.fetchSettled && now.Sub(s.startedAt) >= MinLoadingDuration
}

func (s *LoadingState) Message() LoadingMessage {
	return LoadingMessages[s.messageIdx]
}

// Step is the 1-based index of the current message, for the progress bar.
func (s *LoadingState) Step() int { return s.messageIdx + 1 }

func (s *LoadingState) Steps() int { return len(LoadingMessages) }
