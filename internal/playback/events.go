package playback

import "time"

// Instruction is emitted by the engine for the view layer (or, for timer
// instructions, for the service that owns the timer).
type Instruction interface {
	instruction()
}

// Batch is the ordered list of instructions produced by one transition.
type Batch []Instruction

// ShowViewer makes the full-screen viewer visible.
type ShowViewer struct{}

// HideViewer hides the viewer.
type HideViewer struct{}

// SetHeader updates the header with the current user.
type SetHeader struct {
	UserIndex      int
	ProfilePicture string
	DisplayName    string
}

// RenderSegments rebuilds the progress bar with Count empty segments.
type RenderSegments struct {
	Count int
}

// UpdateSegment sets the visual state of one segment.
type UpdateSegment struct {
	Index int
	State SegmentState
}

// ShowLoading turns the loading indicator on.
type ShowLoading struct{}

// HideLoading turns the loading indicator off.
type HideLoading struct{}

// SetImageSource asks the view to load URL. The result must be reported back
// with the same token.
type SetImageSource struct {
	URL   string
	Token LoadToken
}

// MarkImageReady tells the view the media for Token finished loading.
type MarkImageReady struct {
	Token LoadToken
}

// StartProgress starts the fill animation of segment Index over Duration.
type StartProgress struct {
	Index    int
	Duration time.Duration
}

// MediaSkipped is emitted when a story's media failed and was skipped.
type MediaSkipped struct {
	URL   string
	Token LoadToken
	Err   error
}

// ScheduleAdvance asks the timer owner to fire AdvanceDue(Timer) after Delay.
type ScheduleAdvance struct {
	Timer TimerToken
	Delay time.Duration
}

// CancelAdvance asks the timer owner to stop the pending timer.
type CancelAdvance struct {
	Timer TimerToken
}

func (ShowViewer) instruction()      {}
func (HideViewer) instruction()      {}
func (SetHeader) instruction()       {}
func (RenderSegments) instruction()  {}
func (UpdateSegment) instruction()   {}
func (ShowLoading) instruction()     {}
func (HideLoading) instruction()     {}
func (SetImageSource) instruction()  {}
func (MarkImageReady) instruction()  {}
func (StartProgress) instruction()   {}
func (MediaSkipped) instruction()    {}
func (ScheduleAdvance) instruction() {}
func (CancelAdvance) instruction()   {}

// IsTimerInstruction reports whether in is handled by the timer owner rather
// than the view.
func IsTimerInstruction(in Instruction) bool {
	switch in.(type) {
	case ScheduleAdvance, CancelAdvance:
		return true
	default:
		return false
	}
}
