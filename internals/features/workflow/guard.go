// file: internals/features/workflow/guard.go
package workflow

import (
	"schoolchamps_backend/internals/constants"
)

/* =========================================================
   AUTHORIZATION GUARD

   Pure table: (entity, from, to) → permitted roles.
   Anything not in the table is denied (deny-by-omission).
   Client-supplied roles are never trusted; callers pass the
   role extracted from the verified JWT.
   ========================================================= */

type transitionKey struct {
	Entity EntityType
	From   Status
	To     Status
}

var guardTable = map[transitionKey][]string{
	// ---- Blog ----
	// writer submits draft for review
	{EntityBlog, StatusDraftCreated, StatusReview}: {constants.RoleWriter, constants.RoleAdmin},
	// writer resubmits after revision
	{EntityBlog, StatusDraftWriter, StatusReview}: {constants.RoleWriter, constants.RoleAdmin},
	// school approves
	{EntityBlog, StatusReview, StatusApprovedSchool}: {constants.RoleSchool, constants.RoleAdmin},
	// school requests changes
	{EntityBlog, StatusReview, StatusDraftWriter}: {constants.RoleSchool, constants.RoleAdmin},
	// admin/school pull an approved blog back for revision
	{EntityBlog, StatusApprovedSchool, StatusDraftWriter}: {constants.RoleSchool, constants.RoleAdmin},
	// admin/school publish (executed by the publish orchestrator)
	{EntityBlog, StatusApprovedSchool, StatusPublishedWP}: {constants.RoleSchool, constants.RoleAdmin},

	// ---- Submission (each step triggered by the drafting/publish flow) ----
	{EntitySubmission, StatusSubmittedSchool, StatusDraftCreated}: {constants.RoleWriter, constants.RoleAdmin},
	{EntitySubmission, StatusDraftCreated, StatusReview}:          {constants.RoleWriter, constants.RoleAdmin},
	{EntitySubmission, StatusReview, StatusPublishedWP}:           {constants.RoleSchool, constants.RoleAdmin},
}

// CanTransition is the sole authority for role-based transition checks.
// Deterministic, no I/O.
func CanTransition(role string, entity EntityType, from, to Status) bool {
	allowed, ok := guardTable[transitionKey{entity, from, to}]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
