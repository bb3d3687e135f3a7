// file: internals/features/workflow/states.go
package workflow

/* =========================================================
   ENTITY TYPES
   ========================================================= */

type EntityType string

const (
	EntityBlog       EntityType = "blog"
	EntitySubmission EntityType = "submission"
)

/* =========================================================
   STATUSES
   ========================================================= */

type Status string

const (
	// Submission only
	StatusSubmittedSchool Status = "submitted_school"

	// Shared
	StatusDraftCreated Status = "draft_created"
	StatusReview       Status = "review"
	StatusPublishedWP  Status = "published_wp"

	// Blog only
	StatusApprovedSchool Status = "approved_school"
	StatusDraftWriter    Status = "draft_writer"
)

func (s Status) Valid(entity EntityType) bool {
	for _, st := range statusesOf(entity) {
		if st == s {
			return true
		}
	}
	return false
}

func statusesOf(entity EntityType) []Status {
	switch entity {
	case EntityBlog:
		return []Status{StatusDraftCreated, StatusReview, StatusApprovedSchool, StatusDraftWriter, StatusPublishedWP}
	case EntitySubmission:
		return []Status{StatusSubmittedSchool, StatusDraftCreated, StatusReview, StatusPublishedWP}
	default:
		return nil
	}
}

/* =========================================================
   TRANSITION TABLES (structural, role-independent)

   Blog:
     draft_created   -> review
     review          -> approved_school | draft_writer
     approved_school -> published_wp | draft_writer
     draft_writer    -> review
     published_wp    terminal

   Submission (strictly linear):
     submitted_school -> draft_created -> review -> published_wp
   ========================================================= */

var blogTransitions = map[Status][]Status{
	StatusDraftCreated:   {StatusReview},
	StatusReview:         {StatusApprovedSchool, StatusDraftWriter},
	StatusApprovedSchool: {StatusPublishedWP, StatusDraftWriter},
	StatusDraftWriter:    {StatusReview},
	StatusPublishedWP:    {},
}

var submissionTransitions = map[Status][]Status{
	StatusSubmittedSchool: {StatusDraftCreated},
	StatusDraftCreated:    {StatusReview},
	StatusReview:          {StatusPublishedWP},
	StatusPublishedWP:     {},
}

func transitionTable(entity EntityType) map[Status][]Status {
	switch entity {
	case EntityBlog:
		return blogTransitions
	case EntitySubmission:
		return submissionTransitions
	default:
		return nil
	}
}

// NextStates lists the states structurally reachable from `from`.
func NextStates(entity EntityType, from Status) []Status {
	next, ok := transitionTable(entity)[from]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTransition reports whether (from → to) exists in the static table,
// independent of any role.
func IsTransition(entity EntityType, from, to Status) bool {
	for _, next := range transitionTable(entity)[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the state.
func IsTerminal(entity EntityType, s Status) bool {
	next, ok := transitionTable(entity)[s]
	return ok && len(next) == 0
}
