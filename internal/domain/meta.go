package domain

// MetaEntry is one key/value metadata row attached to an entity.
type MetaEntry struct {
	EntityID string
	Key      string
	Value    string
}

// Metadata keys used by the engine itself.
const (
	MetaKeyQuizSettings      = "_quiz_settings"
	MetaKeyLiveLessonConfig  = "_live_lesson_config"
	MetaKeyVideoDuration     = "_video_duration"
	MetaKeyEditLock          = "_edit_lock"
	MetaKeyEditLast          = "_edit_last"
	MetaKeyLiveEventID       = "_live_lesson_event_id"
	MetaKeyLiveMeetingID     = "_live_lesson_meeting_id"
	MetaKeyLiveProviderToken = "_live_lesson_provider_token"
)

// topicMetaDenyList and contentItemMetaDenyList name the keys that are never
// copied during duplication: edit-lock bookkeeping and provider-issued
// external identifiers. The copy must mint its own identity at every level,
// including external ones.
var (
	topicMetaDenyList = map[string]struct{}{
		MetaKeyEditLock: {},
		MetaKeyEditLast: {},
	}

	contentItemMetaDenyList = map[string]struct{}{
		MetaKeyEditLock:          {},
		MetaKeyEditLast:          {},
		MetaKeyLiveEventID:       {},
		MetaKeyLiveMeetingID:     {},
		MetaKeyLiveProviderToken: {},
	}
)

// structuredMetaScrubFields are JSON object fields holding identifiers that
// are only meaningful to the source entity (remote calendar events, provider
// meetings). They are removed from structured meta values on copy; the remote
// resources themselves are never touched.
var structuredMetaScrubFields = []string{"event_id", "meeting_id", "occurrence_id"}

// TopicMetaCopyAllowed reports whether a topic meta key survives duplication.
func TopicMetaCopyAllowed(key string) bool {
	_, denied := topicMetaDenyList[key]
	return !denied
}

// ContentItemMetaCopyAllowed reports whether a content item meta key survives
// duplication. The same policy applies to every variant.
func ContentItemMetaCopyAllowed(key string) bool {
	_, denied := contentItemMetaDenyList[key]
	return !denied
}

// StructuredMetaScrubFields returns the JSON fields stripped from structured
// meta values during duplication.
func StructuredMetaScrubFields() []string {
	return structuredMetaScrubFields
}
