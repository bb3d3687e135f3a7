// file: internals/features/social/service/fanout_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"schoolchamps_backend/internals/features/social/model"
)

/* =========================================================
   SOCIAL FAN-OUT ORCHESTRATOR

   One post, N platforms, each on its own goroutine with an
   independent outcome. A failure on one platform never
   blocks or rolls back another; the caller gets the full
   per-platform result list.
   ========================================================= */

// ConnectionSource is what the fan-out needs from the registry.
type ConnectionSource interface {
	GetSnapshot(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform) (*Snapshot, error)
}

type PlatformResult struct {
	Platform   model.SocialPlatform `json:"platform"`
	Success    bool                 `json:"success"`
	ExternalID string               `json:"external_id,omitempty"`
	ErrorCode  string               `json:"error_code,omitempty"`
	Error      string               `json:"error,omitempty"`
	Attempts   int                  `json:"attempts"`
}

type FanoutService struct {
	source  ConnectionSource
	posters map[model.SocialPlatform]Poster

	maxAttempts int
	retryWait   time.Duration
	// perPostTimeout bounds one platform attempt end to end.
	perPostTimeout time.Duration
}

func NewFanoutService(source ConnectionSource, posters map[model.SocialPlatform]Poster) *FanoutService {
	return &FanoutService{
		source:         source,
		posters:        posters,
		maxAttempts:    3,
		retryWait:      2 * time.Second,
		perPostTimeout: 45 * time.Second,
	}
}

// Fanout posts the content to every requested platform concurrently and
// returns one result per platform, in request order. The work runs on a
// context detached from the caller: an HTTP client hanging up must not
// abort posts that are already on the wire.
func (s *FanoutService) Fanout(ctx context.Context, schoolID uuid.UUID, platforms []model.SocialPlatform, content PostContent) []PlatformResult {
	detached := context.WithoutCancel(ctx)

	results := make([]PlatformResult, len(platforms))
	var wg sync.WaitGroup
	for i, platform := range platforms {
		wg.Add(1)
		go func(i int, platform model.SocialPlatform) {
			defer wg.Done()
			results[i] = s.postOne(detached, schoolID, platform, content)
		}(i, platform)
	}
	wg.Wait()

	for _, r := range results {
		if r.Success {
			log.Printf("[FANOUT] school=%s %s ok external_id=%s attempts=%d", schoolID, r.Platform, r.ExternalID, r.Attempts)
		} else {
			log.Printf("[FANOUT] school=%s %s failed code=%s attempts=%d: %s", schoolID, r.Platform, r.ErrorCode, r.Attempts, r.Error)
		}
	}
	return results
}

func (s *FanoutService) postOne(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform, content PostContent) PlatformResult {
	result := PlatformResult{Platform: platform}

	poster, ok := s.posters[platform]
	if !ok {
		result.ErrorCode = string(CodeNotConnected)
		result.Error = fmt.Sprintf("unsupported platform %q", platform)
		return result
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result.Attempts = attempt

		externalID, err := s.attempt(ctx, schoolID, platform, poster, content)
		if err == nil {
			result.Success = true
			result.ExternalID = externalID
			return result
		}
		lastErr = err
		if !IsRetryable(err) || attempt == s.maxAttempts {
			break
		}
		time.Sleep(s.retryWait * time.Duration(attempt))
	}

	result.ErrorCode = string(CodeOf(lastErr))
	result.Error = lastErr.Error()
	return result
}

func (s *FanoutService) attempt(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform, poster Poster, content PostContent) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.perPostTimeout)
	defer cancel()

	// the snapshot is taken per attempt so a mid-fanout token rotation
	// is picked up on retry
	conn, err := s.source.GetSnapshot(attemptCtx, schoolID, platform)
	if err != nil {
		return "", err
	}
	return poster.Post(attemptCtx, conn, content)
}
