package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogAction_Valid(t *testing.T) {
	for _, action := range AllActions {
		assert.True(t, action.Valid(), "action %s", action)
	}

	assert.False(t, LogAction("").Valid())
	assert.False(t, LogAction("deleted_everything").Valid())
	assert.False(t, LogAction("Download").Valid(), "vocabulary is case-sensitive")
}

func TestAllActions_Distinct(t *testing.T) {
	seen := make(map[LogAction]bool, len(AllActions))
	for _, action := range AllActions {
		assert.False(t, seen[action], "duplicate action %s", action)
		seen[action] = true
	}
}
