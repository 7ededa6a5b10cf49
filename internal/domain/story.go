package domain

import "time"

// MediaKind tells the playback layer which duration policy applies:
// images run on a fixed timer, videos follow the player's reported duration.
type MediaKind string

const (
	MediaKindUnknown MediaKind = ""
	MediaKindImage   MediaKind = "image"
	MediaKindVideo   MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// StoryItem is one ephemeral media post. Only Viewed is ever mutated after
// creation; everything else is a snapshot taken at upload time.
type StoryItem struct {
	ID             string
	MediaURL       string
	MediaKind      MediaKind
	OwnerID        string
	OwnerName      string
	OwnerAvatarURL string
	CreatedAt      time.Time
	Viewed         bool
}

// StoryGroup is one user's ring: their stories in insertion order.
type StoryGroup struct {
	OwnerID string
	Items   []StoryItem
}

// ServerStoryRef is the backend's acknowledgement of an uploaded story.
type ServerStoryRef struct {
	ID       string
	MediaURL string
}

// ViewedMark records that the local user finished looking at a story.
type ViewedMark struct {
	StoryID  string
	OwnerID  string
	ViewedAt time.Time
}
