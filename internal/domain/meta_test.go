package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaCopyPolicies(t *testing.T) {
	// Edit-lock bookkeeping never survives a copy, at either level.
	assert.False(t, TopicMetaCopyAllowed(MetaKeyEditLock))
	assert.False(t, TopicMetaCopyAllowed(MetaKeyEditLast))
	assert.False(t, ContentItemMetaCopyAllowed(MetaKeyEditLock))

	// Provider-issued identifiers are item-level concerns.
	assert.False(t, ContentItemMetaCopyAllowed(MetaKeyLiveEventID))
	assert.False(t, ContentItemMetaCopyAllowed(MetaKeyLiveMeetingID))
	assert.False(t, ContentItemMetaCopyAllowed(MetaKeyLiveProviderToken))
	assert.True(t, TopicMetaCopyAllowed(MetaKeyLiveEventID))

	// Ordinary payload keys are copied.
	assert.True(t, ContentItemMetaCopyAllowed(MetaKeyQuizSettings))
	assert.True(t, ContentItemMetaCopyAllowed(MetaKeyVideoDuration))
	assert.True(t, ContentItemMetaCopyAllowed("custom_field"))
}

func TestStructuredMetaScrubFields(t *testing.T) {
	assert.ElementsMatch(t, []string{"event_id", "meeting_id", "occurrence_id"}, StructuredMetaScrubFields())
}
