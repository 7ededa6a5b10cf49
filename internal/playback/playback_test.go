package playback

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/craftfolio/story-engine/internal/domain"
	"github.com/craftfolio/story-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	return logger.New(logger.Opts{})
}

func stories(kinds ...domain.MediaKind) []domain.StoryItem {
	out := make([]domain.StoryItem, 0, len(kinds))
	for i, k := range kinds {
		out = append(out, domain.StoryItem{
			ID:        string(rune('a' + i)),
			OwnerID:   "owner",
			MediaKind: k,
		})
	}
	return out
}

func newTestSession(t *testing.T, opts Opts) *Session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	s, err := NewSession(opts)
	require.NoError(t, err)
	return s
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(Opts{Logger: testLogger()})
	assert.Error(t, err)

	_, err = NewSession(Opts{
		Stories:    stories(domain.MediaKindImage),
		StartIndex: 1,
		Logger:     testLogger(),
	})
	assert.Error(t, err)

	_, err = NewSession(Opts{
		Stories:    stories(domain.MediaKindImage),
		StartIndex: -1,
		Logger:     testLogger(),
	})
	assert.Error(t, err)
}

func TestAdvance_WalksForwardAndFinishesOnce(t *testing.T) {
	var completions int32
	s := newTestSession(t, Opts{
		Stories:    stories(domain.MediaKindImage, domain.MediaKindImage, domain.MediaKindImage),
		OnComplete: func() { atomic.AddInt32(&completions, 1) },
	})

	s.MediaReady()
	require.Equal(t, StatePlaying, s.State())

	s.Advance()
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, StateLoading, s.State())

	s.MediaReady()
	s.Advance()
	assert.Equal(t, 2, s.CurrentIndex())

	s.MediaReady()
	s.Advance()
	assert.Equal(t, StateFinished, s.State())
	assert.Equal(t, int32(1), atomic.LoadInt32(&completions))

	// Finished sessions ignore further input.
	s.Advance()
	s.Retreat()
	assert.Equal(t, StateFinished, s.State())
	assert.Equal(t, int32(1), atomic.LoadInt32(&completions))
}

func TestAdvance_EmitsViewedEventsAndClosesChannel(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories: stories(domain.MediaKindImage, domain.MediaKindImage),
	})

	s.MediaReady()
	s.Advance()
	s.MediaReady()
	s.Advance()

	var got []string
	for ev := range s.Events() {
		assert.Equal(t, s.ID(), ev.SessionID)
		got = append(got, ev.Story.ID)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRetreat_NoOpAtFirstStory(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories: stories(domain.MediaKindImage, domain.MediaKindImage),
	})

	s.MediaReady()
	s.Retreat()
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, StatePlaying, s.State())
}

func TestRetreat_MovesBackAndReloads(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories:    stories(domain.MediaKindImage, domain.MediaKindImage),
		StartIndex: 1,
	})

	s.MediaReady()
	s.Retreat()
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, StateLoading, s.State())
	assert.Equal(t, 0.0, s.Progress())
}

func TestPauseResume_PreservesProgress(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories:       stories(domain.MediaKindImage),
		ImageDuration: time.Hour,
		Tick:          time.Millisecond,
	})

	s.MediaReady()
	require.Eventually(t, func() bool { return s.Progress() > 0 },
		time.Second, time.Millisecond)

	s.Pause()
	assert.Equal(t, StatePaused, s.State())
	frozen := s.Progress()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, s.Progress())

	s.Resume()
	assert.Equal(t, StatePlaying, s.State())
	require.Eventually(t, func() bool { return s.Progress() > frozen },
		time.Second, time.Millisecond)
}

func TestPause_BlocksNavigation(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories:    stories(domain.MediaKindImage, domain.MediaKindImage),
		StartIndex: 1,
	})

	s.MediaReady()
	s.Pause()

	s.Advance()
	assert.Equal(t, 1, s.CurrentIndex())
	s.Retreat()
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, StatePaused, s.State())
}

func TestReply_PausesAndBlocksNavigationUntilClosed(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories: stories(domain.MediaKindImage, domain.MediaKindImage),
	})

	s.MediaReady()
	s.OpenReply()
	assert.Equal(t, StatePaused, s.State())

	s.Advance()
	assert.Equal(t, 0, s.CurrentIndex())

	// Resume alone is not enough while the composer is open.
	s.Resume()
	assert.Equal(t, StatePaused, s.State())

	s.CloseReply()
	assert.Equal(t, StatePlaying, s.State())
	s.Advance()
	assert.Equal(t, 1, s.CurrentIndex())
}

func TestImageAutoAdvance(t *testing.T) {
	var completions int32
	s := newTestSession(t, Opts{
		Stories:       stories(domain.MediaKindImage, domain.MediaKindImage),
		ImageDuration: 30 * time.Millisecond,
		Tick:          5 * time.Millisecond,
		OnComplete:    func() { atomic.AddInt32(&completions, 1) },
	})

	s.MediaReady()
	require.Eventually(t, func() bool { return s.CurrentIndex() == 1 },
		time.Second, time.Millisecond)
	assert.Equal(t, StateLoading, s.State())

	s.MediaReady()
	require.Eventually(t, func() bool { return s.State() == StateFinished },
		time.Second, time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&completions))
}

func TestMediaFailed_SkipsCurrentItem(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories: stories(domain.MediaKindImage, domain.MediaKindImage),
	})

	s.MediaFailed(assert.AnError)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, StateLoading, s.State())
}

func TestVideoProgressAndFinish(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories: stories(domain.MediaKindVideo, domain.MediaKindImage),
	})

	s.MediaReady()
	s.VideoProgress(3*time.Second, 10*time.Second)
	assert.InDelta(t, 0.3, s.Progress(), 0.001)

	// Reported position can overshoot the duration; progress is clamped.
	s.VideoProgress(11*time.Second, 10*time.Second)
	assert.Equal(t, 1.0, s.Progress())

	s.VideoFinished()
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, StateLoading, s.State())
}

func TestVideoFinished_IgnoredForImages(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories:       stories(domain.MediaKindImage, domain.MediaKindImage),
		ImageDuration: time.Hour,
	})

	s.MediaReady()
	s.VideoFinished()
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestClose_FiresOnCloseNeverOnComplete(t *testing.T) {
	var completions, closes int32
	s := newTestSession(t, Opts{
		Stories:    stories(domain.MediaKindImage, domain.MediaKindImage),
		OnComplete: func() { atomic.AddInt32(&completions, 1) },
		OnClose:    func() { atomic.AddInt32(&closes, 1) },
	})

	s.MediaReady()
	s.Close()
	s.Close()

	assert.Equal(t, int32(1), atomic.LoadInt32(&closes))
	assert.Equal(t, int32(0), atomic.LoadInt32(&completions))
	assert.Equal(t, StateFinished, s.State())

	_, open := <-s.Events()
	assert.False(t, open)
}

func TestClose_StopsImageTimer(t *testing.T) {
	s := newTestSession(t, Opts{
		Stories:       stories(domain.MediaKindImage),
		ImageDuration: 30 * time.Millisecond,
		Tick:          5 * time.Millisecond,
	})

	s.MediaReady()
	s.Close()

	idx := s.CurrentIndex()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, idx, s.CurrentIndex())
}
