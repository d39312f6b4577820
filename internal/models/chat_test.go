package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationKeyCanonicalizesPair(t *testing.T) {
	assert.Equal(t, ConversationKey("1", "2"), ConversationKey("2", "1"))
	assert.Equal(t, "1:2", ConversationKey("2", "1"))

	// String order, not numeric order
	assert.Equal(t, "10:9", ConversationKey("9", "10"))
}

func TestConversationParticipantsSorted(t *testing.T) {
	assert.Equal(t, []string{"3", "7"}, ConversationParticipants("7", "3"))
	assert.Equal(t, []string{"3", "7"}, ConversationParticipants("3", "7"))
}
