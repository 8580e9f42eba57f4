package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReply_TopLevel(t *testing.T) {
	r := NewReply(10, 1, "Use more yeast")
	assert.True(t, r.IsTopLevel())
	assert.False(t, r.IsPersisted())
	assert.Equal(t, int64(10), r.SubjectID)
}

func TestNewChildReply(t *testing.T) {
	parent := &Reply{ID: 5, SubjectID: 10, UserID: 1, Body: "parent"}
	child := NewChildReply(parent, 2, "child")

	require.NotNil(t, child.ParentReplyID)
	assert.Equal(t, int64(5), *child.ParentReplyID)
	assert.Equal(t, int64(10), child.SubjectID)
	assert.False(t, child.IsTopLevel())

	// Later changes to the parent must not leak into the child.
	parent.ID = 99
	assert.Equal(t, int64(5), *child.ParentReplyID)
}

func TestNewQuestion_Unsaved(t *testing.T) {
	q := NewQuestion("How to bake bread", "Any tips?", 1)
	assert.False(t, q.IsPersisted())
	assert.Equal(t, int64(1), q.AuthorID)
}
