// file: internals/features/blogs/service/workflow_service_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolchamps_backend/internals/constants"
	"schoolchamps_backend/internals/features/workflow"
)

func TestClaimLosingCASIsConflict(t *testing.T) {
	// Two concurrent draft creations both read submitted_school; the
	// second UPDATE matches zero rows and must fail the transaction
	// instead of committing a second blog.
	id := uuid.New()
	err := claimOutcome(0, id, workflow.StatusSubmittedSchool)
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrConflict)

	assert.NoError(t, claimOutcome(1, id, workflow.StatusSubmittedSchool))
}

func TestClaimRejectsInvalidTransition(t *testing.T) {
	// The transition table is checked before any SQL runs.
	err := ClaimSubmissionStatus(nil, uuid.New(),
		workflow.StatusPublishedWP, workflow.StatusSubmittedSchool)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestCheckSchoolScope(t *testing.T) {
	schoolID := uuid.New()
	other := uuid.New()

	assert.NoError(t, CheckSchoolScope(Actor{Role: constants.RoleAdmin}, nil))
	assert.NoError(t, CheckSchoolScope(Actor{Role: constants.RoleSchool, SchoolID: schoolID}, &schoolID))

	err := CheckSchoolScope(Actor{Role: constants.RoleSchool, SchoolID: schoolID}, &other)
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	err = CheckSchoolScope(Actor{Role: constants.RoleSchool, SchoolID: schoolID}, nil)
	assert.ErrorIs(t, err, workflow.ErrForbidden)
}
