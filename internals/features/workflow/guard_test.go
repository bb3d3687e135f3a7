// file: internals/features/workflow/guard_test.go
package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolchamps_backend/internals/constants"
)

func TestCanTransitionBlogTable(t *testing.T) {
	cases := []struct {
		role string
		from Status
		to   Status
		want bool
	}{
		{constants.RoleWriter, StatusDraftCreated, StatusReview, true},
		{constants.RoleAdmin, StatusDraftCreated, StatusReview, true},
		{constants.RoleSchool, StatusDraftCreated, StatusReview, false},
		{constants.RoleMarketer, StatusDraftCreated, StatusReview, false},

		{constants.RoleSchool, StatusReview, StatusApprovedSchool, true},
		{constants.RoleWriter, StatusReview, StatusApprovedSchool, false},

		{constants.RoleSchool, StatusReview, StatusDraftWriter, true},
		{constants.RoleAdmin, StatusReview, StatusDraftWriter, true},
		{constants.RoleAdmin, StatusApprovedSchool, StatusDraftWriter, true},
		{constants.RoleSchool, StatusApprovedSchool, StatusDraftWriter, true},
		{constants.RoleWriter, StatusApprovedSchool, StatusDraftWriter, false},

		{constants.RoleAdmin, StatusApprovedSchool, StatusPublishedWP, true},
		{constants.RoleSchool, StatusApprovedSchool, StatusPublishedWP, true},
		{constants.RoleWriter, StatusApprovedSchool, StatusPublishedWP, false},
		{constants.RoleMarketer, StatusApprovedSchool, StatusPublishedWP, false},

		{constants.RoleWriter, StatusDraftWriter, StatusReview, true},
		{constants.RoleSchool, StatusDraftWriter, StatusReview, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_%s_to_%s", tc.role, tc.from, tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.role, EntityBlog, tc.from, tc.to))
		})
	}
}

// Deny-by-omission: every (role, from, to) pair that is not explicitly in the
// guard table must be denied, including structurally impossible pairs.
func TestCanTransitionDeniesByDefault(t *testing.T) {
	allBlogStatuses := []Status{StatusDraftCreated, StatusReview, StatusApprovedSchool, StatusDraftWriter, StatusPublishedWP}
	for _, role := range append(constants.AllRoles, "superuser", "", "ADMIN") {
		for _, from := range allBlogStatuses {
			for _, to := range allBlogStatuses {
				if CanTransition(role, EntityBlog, from, to) {
					// allowed pairs must also be structurally legal
					assert.True(t, IsTransition(EntityBlog, from, to),
						"guard allows %s %s→%s which is not in the state table", role, from, to)
					continue
				}
			}
		}
	}

	// spot checks for pairs absent from the table
	assert.False(t, CanTransition(constants.RoleAdmin, EntityBlog, StatusPublishedWP, StatusReview),
		"published_wp is terminal even for admin")
	assert.False(t, CanTransition(constants.RoleAdmin, EntityBlog, StatusDraftCreated, StatusPublishedWP),
		"skipping review/approval must be denied")
	assert.False(t, CanTransition(constants.RoleAdmin, EntitySubmission, StatusSubmittedSchool, StatusReview),
		"submission steps may not be skipped")
	assert.False(t, CanTransition(constants.RoleMarketer, EntitySubmission, StatusSubmittedSchool, StatusDraftCreated))
}

func TestCanTransitionUnknownEntity(t *testing.T) {
	assert.False(t, CanTransition(constants.RoleAdmin, EntityType("page"), StatusReview, StatusApprovedSchool))
}
