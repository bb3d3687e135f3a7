// file: internals/features/workflow/states_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlogStateTable(t *testing.T) {
	assert.True(t, IsTransition(EntityBlog, StatusDraftCreated, StatusReview))
	assert.True(t, IsTransition(EntityBlog, StatusReview, StatusApprovedSchool))
	assert.True(t, IsTransition(EntityBlog, StatusReview, StatusDraftWriter))
	assert.True(t, IsTransition(EntityBlog, StatusApprovedSchool, StatusDraftWriter))
	assert.True(t, IsTransition(EntityBlog, StatusApprovedSchool, StatusPublishedWP))
	assert.True(t, IsTransition(EntityBlog, StatusDraftWriter, StatusReview))

	// No skipping and no leaving the terminal state
	assert.False(t, IsTransition(EntityBlog, StatusDraftCreated, StatusApprovedSchool))
	assert.False(t, IsTransition(EntityBlog, StatusDraftCreated, StatusPublishedWP))
	assert.False(t, IsTransition(EntityBlog, StatusReview, StatusPublishedWP))
	assert.False(t, IsTransition(EntityBlog, StatusPublishedWP, StatusReview))
	assert.False(t, IsTransition(EntityBlog, StatusPublishedWP, StatusDraftWriter))

	assert.True(t, IsTerminal(EntityBlog, StatusPublishedWP))
	assert.False(t, IsTerminal(EntityBlog, StatusApprovedSchool))
}

func TestSubmissionStateTableIsStrictlyLinear(t *testing.T) {
	order := []Status{StatusSubmittedSchool, StatusDraftCreated, StatusReview, StatusPublishedWP}
	for i, from := range order {
		for j, to := range order {
			got := IsTransition(EntitySubmission, from, to)
			want := j == i+1
			assert.Equalf(t, want, got, "submission %s→%s", from, to)
		}
	}
	assert.True(t, IsTerminal(EntitySubmission, StatusPublishedWP))

	// Submission never reverses: no draft_writer side channel here
	assert.False(t, StatusDraftWriter.Valid(EntitySubmission))
}

func TestNextStatesReturnsCopy(t *testing.T) {
	next := NextStates(EntityBlog, StatusReview)
	assert.ElementsMatch(t, []Status{StatusApprovedSchool, StatusDraftWriter}, next)

	next[0] = StatusPublishedWP
	assert.ElementsMatch(t, []Status{StatusApprovedSchool, StatusDraftWriter},
		NextStates(EntityBlog, StatusReview), "mutating the result must not affect the table")

	assert.Nil(t, NextStates(EntityBlog, Status("bogus")))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusApprovedSchool.Valid(EntityBlog))
	assert.False(t, StatusApprovedSchool.Valid(EntitySubmission))
	assert.True(t, StatusSubmittedSchool.Valid(EntitySubmission))
	assert.False(t, StatusSubmittedSchool.Valid(EntityBlog))
	assert.False(t, Status("archived").Valid(EntityBlog))
}
