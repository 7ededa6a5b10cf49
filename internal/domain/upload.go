package domain

// UploadDescriptor is built per upload attempt and discarded once the
// attempt resolves. It is never reused in place.
type UploadDescriptor struct {
	SourceURI string
	MimeType  string
	FileName  string
	MediaKind MediaKind
}

// UploadStatus tracks an optimistic story mutation through its lifecycle.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadCommitted UploadStatus = "committed"
	UploadFailed    UploadStatus = "failed"
)

// UploadState is the tagged result of an addStory mutation. Reason is set
// only when Status is UploadFailed.
type UploadState struct {
	Descriptor UploadDescriptor
	Status     UploadStatus
	Reason     string
}
