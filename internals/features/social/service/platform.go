// file: internals/features/social/service/platform.go
package service

import (
	"context"
	"errors"
	"fmt"

	"schoolchamps_backend/internals/features/social/model"
)

/* =========================================================
   PLATFORM ERROR TAXONOMY

   Only CodeTimeout is retryable: auth and rejection errors
   never resolve by retrying and retrying a rejected post
   risks a duplicate on the remote side.
   ========================================================= */

type ErrorCode string

const (
	CodeNotConnected   ErrorCode = "NOT_CONNECTED"
	CodeAuthExpired    ErrorCode = "AUTH_EXPIRED"
	CodeRemoteRejected ErrorCode = "REMOTE_REJECTED"
	CodeTimeout        ErrorCode = "TIMEOUT"
)

type PlatformError struct {
	Platform model.SocialPlatform
	Code     ErrorCode
	Err      error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Platform, e.Code, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

func NewPlatformError(platform model.SocialPlatform, code ErrorCode, err error) *PlatformError {
	return &PlatformError{Platform: platform, Code: code, Err: err}
}

// IsRetryable reports whether a second attempt could plausibly succeed.
func IsRetryable(err error) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Code == CodeTimeout
	}
	return false
}

// CodeOf extracts the taxonomy code, defaulting to REMOTE_REJECTED for
// errors raised outside the platform clients.
func CodeOf(err error) ErrorCode {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeRemoteRejected
}

// PostContent is the platform-independent payload fanned out to each network.
type PostContent struct {
	Message  string
	LinkURL  string
	ImageURL string
}

// Poster publishes one post on one platform using a decrypted connection.
type Poster interface {
	Post(ctx context.Context, conn *Snapshot, content PostContent) (externalID string, err error)
}
