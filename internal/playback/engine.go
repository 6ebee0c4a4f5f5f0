// Package playback implements the story playback state machine and the
// service that drives it from a single event queue.
package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/llehouerou/stories/internal/catalog"
)

// DefaultAdvanceDelay is how long a loaded story stays on screen.
const DefaultAdvanceDelay = 5 * time.Second

// ErrInvalidIndex is returned when Open is called with a user index outside
// the catalog. Callers are expected to pass indices from the rendered list.
var ErrInvalidIndex = errors.New("invalid user index")

type direction int

const (
	backward direction = -1
	forward  direction = 1
)

// Engine is the viewer state machine. It is not safe for concurrent use:
// every call must come from the same event loop. Each transition returns
// the instructions it emitted, in order.
type Engine struct {
	catalog catalog.Catalog
	delay   time.Duration

	state State
	user  int
	story int

	generation uint64
	pending    LoadToken

	timer  TimerToken
	timers uint64

	out Batch
}

// NewEngine creates a closed engine for the catalog.
func NewEngine(c catalog.Catalog, delay time.Duration) *Engine {
	if delay <= 0 {
		delay = DefaultAdvanceDelay
	}
	return &Engine{
		catalog: c,
		delay:   delay,
		user:    -1,
		story:   -1,
	}
}

func checkIndex(c catalog.Catalog, userIndex int) error {
	if !c.InRange(userIndex) {
		return fmt.Errorf("%w: %d (catalog has %d users)", ErrInvalidIndex, userIndex, c.Len())
	}
	return nil
}

// Delay returns the auto-advance delay.
func (e *Engine) Delay() time.Duration {
	return e.delay
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:      e.state,
		UserIndex:  e.user,
		StoryIndex: e.story,
		Loading:    e.state == StateLoading,
		Timer:      e.timer,
		Generation: e.generation,
	}
}

// Segments returns the derived progress segments of the current user.
func (e *Engine) Segments() []SegmentState {
	if !e.state.IsOpen() {
		return nil
	}
	return DeriveSegments(e.catalog[e.user].StoryCount(), e.story, e.state == StateShowing)
}

// CurrentUser returns the user being viewed.
func (e *Engine) CurrentUser() (catalog.User, bool) {
	if !e.state.IsOpen() {
		return catalog.User{}, false
	}
	return e.catalog[e.user], true
}

// CurrentStoryURL returns the media URL of the current story.
func (e *Engine) CurrentStoryURL() string {
	if !e.state.IsOpen() {
		return ""
	}
	return e.catalog[e.user].Stories[e.story]
}

// Open shows the stories of userIndex, starting at its first story.
func (e *Engine) Open(userIndex int) (Batch, error) {
	if err := checkIndex(e.catalog, userIndex); err != nil {
		return nil, err
	}
	e.cancelTimer()
	e.pending = LoadToken{}
	e.state = StateLoading
	e.emit(ShowViewer{})
	e.enterUser(userIndex, forward)
	return e.flush(), nil
}

// Close hides the viewer. Closing a closed viewer emits nothing but still
// clears any pending timer or load.
func (e *Engine) Close() Batch {
	e.close()
	return e.flush()
}

// NextStory moves to the next story, or the next user after the last one.
func (e *Engine) NextStory() Batch {
	if !e.state.IsOpen() {
		return nil
	}
	e.nextStory()
	return e.flush()
}

// PreviousStory moves to the previous story, or to the last story of the
// previous user before the first one.
func (e *Engine) PreviousStory() Batch {
	if !e.state.IsOpen() {
		return nil
	}
	e.previousStory()
	return e.flush()
}

// OnLoaded reports that the media for token finished loading. Tokens of
// superseded loads are ignored.
func (e *Engine) OnLoaded(token LoadToken) Batch {
	if !e.isCurrentLoad(token) {
		return nil
	}
	e.pending = LoadToken{}
	e.state = StateShowing
	e.emit(HideLoading{})
	e.emit(MarkImageReady{Token: token})
	e.emit(UpdateSegment{Index: e.story, State: SegmentAnimating})
	e.emit(StartProgress{Index: e.story, Duration: e.delay})
	e.scheduleTimer()
	return e.flush()
}

// OnLoadError reports that the media for token failed. The story is skipped.
func (e *Engine) OnLoadError(token LoadToken, err error) Batch {
	if !e.isCurrentLoad(token) {
		return nil
	}
	url := e.catalog[e.user].Stories[e.story]
	e.pending = LoadToken{}
	e.emit(HideLoading{})
	e.emit(MediaSkipped{URL: url, Token: token, Err: err})
	e.nextStory()
	return e.flush()
}

// AdvanceDue reports that the auto-advance timer fired. Timers that were
// cancelled or replaced are ignored.
func (e *Engine) AdvanceDue(timer TimerToken) Batch {
	if timer == 0 || timer != e.timer || e.state != StateShowing {
		return nil
	}
	e.timer = 0
	e.nextStory()
	return e.flush()
}

func (e *Engine) isCurrentLoad(token LoadToken) bool {
	return e.state == StateLoading && !token.IsZero() && token == e.pending
}

func (e *Engine) nextStory() {
	e.cancelTimer()
	e.story++
	if e.story >= e.catalog[e.user].StoryCount() {
		e.enterUser(e.user+1, forward)
		return
	}
	e.beginLoad()
}

func (e *Engine) previousStory() {
	e.cancelTimer()
	e.story--
	if e.story < 0 {
		e.enterUser(e.user-1, backward)
		return
	}
	e.beginLoad()
}

// enterUser switches to userIndex, skipping users without stories in the
// direction of travel. Leaving the catalog closes the viewer.
func (e *Engine) enterUser(userIndex int, dir direction) {
	for e.catalog.InRange(userIndex) && e.catalog[userIndex].StoryCount() == 0 {
		userIndex += int(dir)
	}
	if !e.catalog.InRange(userIndex) {
		e.close()
		return
	}

	u := e.catalog[userIndex]
	e.user = userIndex
	if dir == backward {
		e.story = u.StoryCount() - 1
	} else {
		e.story = 0
	}

	e.emit(SetHeader{
		UserIndex:      userIndex,
		ProfilePicture: u.ProfilePicture,
		DisplayName:    u.DisplayName,
	})
	e.emit(RenderSegments{Count: u.StoryCount()})
	e.beginLoad()
}

func (e *Engine) beginLoad() {
	e.cancelTimer()
	e.generation++
	e.pending = LoadToken{
		Generation: e.generation,
		UserIndex:  e.user,
		StoryIndex: e.story,
	}
	e.state = StateLoading

	for i, s := range DeriveSegments(e.catalog[e.user].StoryCount(), e.story, false) {
		e.emit(UpdateSegment{Index: i, State: s})
	}
	e.emit(ShowLoading{})
	e.emit(SetImageSource{
		URL:   e.catalog[e.user].Stories[e.story],
		Token: e.pending,
	})
}

func (e *Engine) close() {
	e.cancelTimer()
	wasOpen := e.state.IsOpen()
	if !e.pending.IsZero() {
		e.emit(HideLoading{})
	}
	e.pending = LoadToken{}
	e.state = StateClosed
	e.user = -1
	e.story = -1
	if wasOpen {
		e.emit(HideViewer{})
	}
}

func (e *Engine) scheduleTimer() {
	e.cancelTimer()
	e.timers++
	e.timer = TimerToken(e.timers)
	e.emit(ScheduleAdvance{Timer: e.timer, Delay: e.delay})
}

func (e *Engine) cancelTimer() {
	if e.timer == 0 {
		return
	}
	e.emit(CancelAdvance{Timer: e.timer})
	e.timer = 0
}

func (e *Engine) emit(in Instruction) {
	e.out = append(e.out, in)
}

func (e *Engine) flush() Batch {
	out := e.out
	e.out = nil
	return out
}
