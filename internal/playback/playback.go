// Package playback drives one story-viewing session: timed auto-advance
// for images, player-driven progress for videos, pause/resume, manual
// navigation and completion/close callbacks. All transitions are
// serialized through the session mutex, so the timer goroutine and user
// input never interleave mid-transition.
package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/errors"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/google/uuid"
)

type State int

const (
	StateLoading State = iota
	StatePlaying
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

const (
	DefaultImageDuration = 5 * time.Second
	DefaultTick          = 50 * time.Millisecond

	eventBuffer = 16
)

// ViewedEvent is emitted when the session leaves a story. Consumers handle
// it asynchronously; the session never waits on them.
type ViewedEvent struct {
	SessionID string
	Story     domain.StoryItem
	At        time.Time
}

type Opts struct {
	Stories    []domain.StoryItem
	StartIndex int

	// Zero values fall back to DefaultImageDuration / DefaultTick.
	ImageDuration time.Duration
	Tick          time.Duration

	Logger logger.Logger

	// OnComplete fires exactly once, when the last story finishes.
	// OnClose fires instead when the session is closed early.
	OnComplete func()
	OnClose    func()
}

type Session struct {
	id       string
	stories  []domain.StoryItem
	imageDur time.Duration
	tick     time.Duration
	log      logger.Logger

	onComplete func()
	onClose    func()

	mu        sync.Mutex
	state     State
	index     int
	progress  float64
	replyOpen bool
	gen       uint64
	closed    bool

	events    chan ViewedEvent
	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(opts Opts) (*Session, error) {
	if len(opts.Stories) == 0 {
		return nil, errors.New("playback session needs at least one story")
	}
	if opts.StartIndex < 0 || opts.StartIndex >= len(opts.Stories) {
		return nil, errors.New(fmt.Sprintf("start index %d out of range [0,%d)", opts.StartIndex, len(opts.Stories)))
	}

	imageDur := opts.ImageDuration
	if imageDur <= 0 {
		imageDur = DefaultImageDuration
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}

	s := &Session{
		id:         uuid.NewString(),
		stories:    opts.Stories,
		imageDur:   imageDur,
		tick:       tick,
		log:        opts.Logger,
		onComplete: opts.OnComplete,
		onClose:    opts.OnClose,
		state:      StateLoading,
		index:      opts.StartIndex,
		events:     make(chan ViewedEvent, eventBuffer),
		done:       make(chan struct{}),
	}

	s.log.Info("Playback session opened",
		"session_id", s.id, "stories", len(s.stories), "start_index", s.index)

	return s, nil
}

func (s *Session) ID() string { return s.id }

// Events yields viewed notifications. The channel is closed when the
// session finishes or is closed.
func (s *Session) Events() <-chan ViewedEvent { return s.events }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) Current() domain.StoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stories[s.index]
}

// MediaReady signals that the current item is decoded (image) or has its
// metadata loaded (video) and playback can start.
func (s *Session) MediaReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoading || s.closed {
		return
	}
	s.state = StatePlaying
	if s.stories[s.index].MediaKind == domain.MediaKindImage {
		s.startImageTimerLocked()
	}
}

// MediaFailed treats a load failure as terminal for the current item only:
// it logs and advances so one bad asset does not block the whole ring.
func (s *Session) MediaFailed(err error) {
	s.mu.Lock()
	if s.state == StateFinished || s.closed {
		s.mu.Unlock()
		return
	}
	s.log.Warn("Story media failed to load, skipping",
		"session_id", s.id, "story_id", s.stories[s.index].ID, "error", err)
	after := s.advanceLocked()
	s.mu.Unlock()
	if after != nil {
		after()
	}
}

// VideoProgress tracks the player's reported position for the current
// video item.
func (s *Session) VideoProgress(position, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying || duration <= 0 {
		return
	}
	if s.stories[s.index].MediaKind != domain.MediaKindVideo {
		return
	}
	p := float64(position) / float64(duration)
	if p > 1 {
		p = 1
	}
	s.progress = p
}

// VideoFinished signals natural end-of-media for the current video item.
func (s *Session) VideoFinished() {
	s.mu.Lock()
	if s.state != StatePlaying || s.stories[s.index].MediaKind != domain.MediaKindVideo {
		s.mu.Unlock()
		return
	}
	s.progress = 1
	after := s.advanceLocked()
	s.mu.Unlock()
	if after != nil {
		after()
	}
}

// Advance moves to the next story, or finishes the session on the last
// one. Navigation is blocked while paused or while the reply composer is
// open.
func (s *Session) Advance() {
	s.mu.Lock()
	if s.navigationBlockedLocked() {
		s.mu.Unlock()
		return
	}
	after := s.advanceLocked()
	s.mu.Unlock()
	if after != nil {
		after()
	}
}

// Retreat moves to the previous story. At index 0 it is a no-op; it never
// closes the viewer.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.navigationBlockedLocked() || s.index == 0 {
		return
	}
	s.emitViewedLocked(s.stories[s.index])
	s.index--
	s.progress = 0
	s.state = StateLoading
	s.gen++
}

// Pause freezes progress; the caller is expected to pause the underlying
// player for video items.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return
	}
	s.state = StatePaused
	s.gen++
}

// Resume continues from the frozen progress point; it does not restart
// from zero.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused || s.replyOpen {
		return
	}
	s.state = StatePlaying
	if s.stories[s.index].MediaKind == domain.MediaKindImage {
		s.startImageTimerLocked()
	}
}

// OpenReply opens the reply composer: playback pauses and navigation is
// blocked until it closes.
func (s *Session) OpenReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.replyOpen = true
	if s.state == StatePlaying {
		s.state = StatePaused
		s.gen++
	}
}

// CloseReply closes the reply composer and resumes playback.
func (s *Session) CloseReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.replyOpen {
		return
	}
	s.replyOpen = false
	if s.state != StatePaused {
		return
	}
	s.state = StatePlaying
	if s.stories[s.index].MediaKind == domain.MediaKindImage {
		s.startImageTimerLocked()
	}
}

// Close terminates the session from any state. It cancels the timer,
// fires the close callback and never the completion callback.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.state = StateFinished
	s.gen++
	s.closeEventsLocked()
	s.mu.Unlock()

	s.log.Info("Playback session closed", "session_id", s.id)
	if s.onClose != nil {
		s.onClose()
	}
}

func (s *Session) navigationBlockedLocked() bool {
	return s.state == StatePaused || s.state == StateFinished || s.replyOpen || s.closed
}

// advanceLocked performs the index move and returns the completion
// callback to run once the lock is released, if the session just finished.
func (s *Session) advanceLocked() func() {
	s.emitViewedLocked(s.stories[s.index])
	s.gen++

	if s.index+1 < len(s.stories) {
		s.index++
		s.progress = 0
		s.state = StateLoading
		return nil
	}

	s.state = StateFinished
	s.closed = true
	s.closeEventsLocked()
	s.log.Info("Playback session finished", "session_id", s.id)
	return s.onComplete
}

func (s *Session) emitViewedLocked(item domain.StoryItem) {
	ev := ViewedEvent{SessionID: s.id, Story: item, At: time.Now()}
	select {
	case s.events <- ev:
	default:
		s.log.Warn("Dropping viewed event, consumer is behind",
			"session_id", s.id, "story_id", item.ID)
	}
}

func (s *Session) closeEventsLocked() {
	s.closeOnce.Do(func() {
		close(s.done)
		close(s.events)
	})
}

func (s *Session) startImageTimerLocked() {
	gen := s.gen
	ticker := time.NewTicker(s.tick)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				if s.tickImage(gen) {
					return
				}
			}
		}
	}()
}

// tickImage advances image progress by one tick. It returns true when this
// timer generation is spent.
func (s *Session) tickImage(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen || s.state != StatePlaying {
		s.mu.Unlock()
		return true
	}

	s.progress += float64(s.tick) / float64(s.imageDur)
	if s.progress < 1 {
		s.mu.Unlock()
		return false
	}

	s.progress = 1
	after := s.advanceLocked()
	s.mu.Unlock()
	if after != nil {
		after()
	}
	return true
}
