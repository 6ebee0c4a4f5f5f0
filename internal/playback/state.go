// internal/playback/state.go
package playback

// State represents the viewer state.
type State int

const (
	StateClosed State = iota
	StateLoading
	StateShowing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateLoading:
		return "Loading"
	case StateShowing:
		return "Showing"
	default:
		return "Unknown"
	}
}

// IsOpen returns true if the viewer is open (loading or showing).
func (s State) IsOpen() bool {
	return s == StateLoading || s == StateShowing
}

// SegmentState is the visual state of one progress segment.
type SegmentState int

const (
	SegmentEmpty SegmentState = iota
	SegmentActive
	SegmentAnimating
	SegmentCompleted
)

// String returns the segment state name.
func (s SegmentState) String() string {
	switch s {
	case SegmentEmpty:
		return "empty"
	case SegmentActive:
		return "active"
	case SegmentAnimating:
		return "animating"
	case SegmentCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DeriveSegments computes the segment states of a user's story bar.
// Segments before current are completed; the current one is active until its
// media is loaded, then animating; the rest are empty.
func DeriveSegments(count, current int, loaded bool) []SegmentState {
	if count <= 0 {
		return nil
	}
	segs := make([]SegmentState, count)
	for i := range segs {
		switch {
		case i < current:
			segs[i] = SegmentCompleted
		case i == current && loaded:
			segs[i] = SegmentAnimating
		case i == current:
			segs[i] = SegmentActive
		default:
			segs[i] = SegmentEmpty
		}
	}
	return segs
}

// LoadToken identifies one media load. Only the token of the most recent
// load is accepted by OnLoaded/OnLoadError.
type LoadToken struct {
	Generation uint64
	UserIndex  int
	StoryIndex int
}

// IsZero reports whether the token is unset.
func (t LoadToken) IsZero() bool {
	return t.Generation == 0
}

// TimerToken identifies one scheduled auto-advance. Zero means none.
type TimerToken uint64

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	State      State
	UserIndex  int
	StoryIndex int
	Loading    bool
	Timer      TimerToken
	Generation uint64
}
