// file: internals/features/submissions/dto/submission_dto.go
package dto

import (
	"github.com/google/uuid"
)

/* =========================================================
   Requests
   ========================================================= */

// CreateSubmissionRequest comes in as multipart fields next to the
// attachment files.
type CreateSubmissionRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=3,max=200"`
	Description string `form:"description" json:"description" validate:"required,min=10"`
	Category    string `form:"category" json:"category" validate:"required,oneof=news achievement event announcement other"`
}

type UpdateSubmissionRequest struct {
	// writer the story is assigned to
	AssignedTo *uuid.UUID `json:"assigned_to"`
}
