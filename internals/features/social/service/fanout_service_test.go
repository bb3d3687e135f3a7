// file: internals/features/social/service/fanout_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolchamps_backend/internals/features/social/model"
)

/* ===================== in-memory doubles ===================== */

type memSource struct {
	mu    sync.Mutex
	conns map[model.SocialPlatform]*Snapshot
	errs  map[model.SocialPlatform]error
}

func newMemSource() *memSource {
	return &memSource{
		conns: make(map[model.SocialPlatform]*Snapshot),
		errs:  make(map[model.SocialPlatform]error),
	}
}

func (m *memSource) connect(platform model.SocialPlatform, schoolID uuid.UUID) {
	m.conns[platform] = &Snapshot{
		ConnectionID: uuid.New(),
		SchoolID:     schoolID,
		Platform:     platform,
		AccessToken:  "token-" + string(platform),
		TargetID:     "target-" + string(platform),
	}
}

func (m *memSource) GetSnapshot(_ context.Context, _ uuid.UUID, platform model.SocialPlatform) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[platform]; ok {
		return nil, err
	}
	conn, ok := m.conns[platform]
	if !ok {
		return nil, NewPlatformError(platform, CodeNotConnected, errors.New("platform not connected"))
	}
	return conn, nil
}

type scriptedPoster struct {
	mu      sync.Mutex
	calls   int
	// errs consumed per call; nil entry or exhaustion means success
	errs []error
	id   string
}

func (p *scriptedPoster) Post(_ context.Context, _ *Snapshot, _ PostContent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return p.id, nil
}

func (p *scriptedPoster) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestFanout(source ConnectionSource, posters map[model.SocialPlatform]Poster) *FanoutService {
	s := NewFanoutService(source, posters)
	s.retryWait = time.Millisecond
	return s
}

/* ===================== tests ===================== */

func TestFanoutPartialFailureIsIndependent(t *testing.T) {
	schoolID := uuid.New()
	source := newMemSource()
	source.connect(model.PlatformFacebook, schoolID)
	source.connect(model.PlatformLinkedIn, schoolID)
	// instagram deliberately not connected

	posters := map[model.SocialPlatform]Poster{
		model.PlatformFacebook:  &scriptedPoster{id: "fb_1"},
		model.PlatformInstagram: &scriptedPoster{id: "ig_1"},
		model.PlatformLinkedIn:  &scriptedPoster{id: "li_1"},
	}
	s := newTestFanout(source, posters)

	results := s.Fanout(context.Background(), schoolID, model.AllPlatforms(), PostContent{Message: "New blog is live"})
	require.Len(t, results, 3)

	byPlatform := map[model.SocialPlatform]PlatformResult{}
	for _, r := range results {
		byPlatform[r.Platform] = r
	}

	assert.True(t, byPlatform[model.PlatformFacebook].Success)
	assert.Equal(t, "fb_1", byPlatform[model.PlatformFacebook].ExternalID)
	assert.True(t, byPlatform[model.PlatformLinkedIn].Success)
	assert.Equal(t, "li_1", byPlatform[model.PlatformLinkedIn].ExternalID)

	ig := byPlatform[model.PlatformInstagram]
	assert.False(t, ig.Success)
	assert.Equal(t, string(CodeNotConnected), ig.ErrorCode)
	assert.Equal(t, 0, posters[model.PlatformInstagram].(*scriptedPoster).callCount(),
		"disconnected platform never posted")
}

func TestFanoutResultsKeepRequestOrder(t *testing.T) {
	schoolID := uuid.New()
	source := newMemSource()
	source.connect(model.PlatformLinkedIn, schoolID)
	source.connect(model.PlatformFacebook, schoolID)

	posters := map[model.SocialPlatform]Poster{
		model.PlatformFacebook: &scriptedPoster{id: "fb"},
		model.PlatformLinkedIn: &scriptedPoster{id: "li"},
	}
	s := newTestFanout(source, posters)

	order := []model.SocialPlatform{model.PlatformLinkedIn, model.PlatformFacebook}
	results := s.Fanout(context.Background(), schoolID, order, PostContent{Message: "x"})
	require.Len(t, results, 2)
	assert.Equal(t, model.PlatformLinkedIn, results[0].Platform)
	assert.Equal(t, model.PlatformFacebook, results[1].Platform)
}

func TestFanoutRetriesTimeoutsOnly(t *testing.T) {
	schoolID := uuid.New()
	source := newMemSource()
	source.connect(model.PlatformFacebook, schoolID)

	poster := &scriptedPoster{
		errs: []error{
			NewPlatformError(model.PlatformFacebook, CodeTimeout, errors.New("request timed out")),
			NewPlatformError(model.PlatformFacebook, CodeTimeout, errors.New("request timed out")),
		},
		id: "fb_2",
	}
	s := newTestFanout(source, map[model.SocialPlatform]Poster{model.PlatformFacebook: poster})

	results := s.Fanout(context.Background(), schoolID, []model.SocialPlatform{model.PlatformFacebook}, PostContent{Message: "x"})
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, 3, results[0].Attempts)
	assert.Equal(t, 3, poster.callCount())
}

func TestFanoutNeverRetriesAuthErrors(t *testing.T) {
	schoolID := uuid.New()
	source := newMemSource()
	source.connect(model.PlatformLinkedIn, schoolID)

	poster := &scriptedPoster{
		errs: []error{
			NewPlatformError(model.PlatformLinkedIn, CodeAuthExpired, errors.New("token revoked")),
		},
	}
	s := newTestFanout(source, map[model.SocialPlatform]Poster{model.PlatformLinkedIn: poster})

	results := s.Fanout(context.Background(), schoolID, []model.SocialPlatform{model.PlatformLinkedIn}, PostContent{Message: "x"})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, string(CodeAuthExpired), results[0].ErrorCode)
	assert.Equal(t, 1, poster.callCount(), "auth errors are terminal")
}

func TestFanoutGivesUpAfterMaxAttempts(t *testing.T) {
	schoolID := uuid.New()
	source := newMemSource()
	source.connect(model.PlatformFacebook, schoolID)

	poster := &scriptedPoster{
		errs: []error{
			NewPlatformError(model.PlatformFacebook, CodeTimeout, errors.New("timeout")),
			NewPlatformError(model.PlatformFacebook, CodeTimeout, errors.New("timeout")),
			NewPlatformError(model.PlatformFacebook, CodeTimeout, errors.New("timeout")),
		},
	}
	s := newTestFanout(source, map[model.SocialPlatform]Poster{model.PlatformFacebook: poster})

	results := s.Fanout(context.Background(), schoolID, []model.SocialPlatform{model.PlatformFacebook}, PostContent{Message: "x"})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, string(CodeTimeout), results[0].ErrorCode)
	assert.Equal(t, 3, poster.callCount())
}

func TestFanoutSurvivesCallerCancellation(t *testing.T) {
	schoolID := uuid.New()
	source := newMemSource()
	source.connect(model.PlatformFacebook, schoolID)

	poster := &scriptedPoster{id: "fb_3"}
	s := newTestFanout(source, map[model.SocialPlatform]Poster{model.PlatformFacebook: poster})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // caller is already gone

	results := s.Fanout(ctx, schoolID, []model.SocialPlatform{model.PlatformFacebook}, PostContent{Message: "x"})
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, "detached context keeps the post alive")
}
