package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVisibility(t *testing.T) {
	tests := []struct {
		name         string
		ownerID      string
		callerID     string
		wantOwner    bool
		wantFilter   StatusFilter
		draftVisible bool
	}{
		{"anonymous caller", "alice", "", false, FilterPublishedOnly, false},
		{"other user", "alice", "bob", false, FilterPublishedOnly, false},
		{"owner", "alice", "alice", true, FilterNone, true},
		{"empty owner never matches anonymous", "", "", false, FilterPublishedOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ResolveVisibility(tt.ownerID, tt.callerID)
			assert.Equal(t, tt.wantOwner, v.IsOwner)
			assert.Equal(t, tt.wantFilter, v.Filter)
			assert.Equal(t, tt.draftVisible, v.Allows(StatusDraft))
			assert.True(t, v.Allows(StatusPublished))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}
