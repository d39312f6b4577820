package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCombatParticipants(t *testing.T) {
	combat := &Combat{CreatorID: "1", OpponentID: "2"}

	assert.True(t, combat.IsParticipant("1"))
	assert.True(t, combat.IsParticipant("2"))
	assert.False(t, combat.IsParticipant("3"))

	assert.Equal(t, "2", combat.OtherParticipant("1"))
	assert.Equal(t, "1", combat.OtherParticipant("2"))
	assert.Equal(t, "", combat.OtherParticipant("3"))
}

func TestCombatCanRespond(t *testing.T) {
	combat := &Combat{CreatorID: "1", OpponentID: "2", Status: CombatStatusPending}

	assert.True(t, combat.CanRespond("2"), "invited opponent can respond while pending")
	assert.False(t, combat.CanRespond("1"), "creator can never respond to their own invitation")
	assert.False(t, combat.CanRespond("3"))

	combat.Status = CombatStatusAccepted
	assert.False(t, combat.CanRespond("2"), "only pending combats accept responses")
}

func TestCombatValidWinner(t *testing.T) {
	combat := &Combat{CreatorID: "1", OpponentID: "2", Status: CombatStatusAccepted}

	assert.True(t, combat.ValidWinner("1"))
	assert.True(t, combat.ValidWinner("2"))
	assert.False(t, combat.ValidWinner("3"))
}

func TestCombatCountsAsCompleted(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name   string
		status string
		date   time.Time
		want   bool
	}{
		{"completed always counts", CombatStatusCompleted, future, true},
		{"accepted with past date counts", CombatStatusAccepted, past, true},
		{"accepted with future date does not", CombatStatusAccepted, future, false},
		{"pending never counts", CombatStatusPending, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combat := &Combat{Status: tt.status, Date: tt.date}
			assert.Equal(t, tt.want, combat.CountsAsCompleted(now))
		})
	}
}
