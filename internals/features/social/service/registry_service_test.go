// file: internals/features/social/service/registry_service_test.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolchamps_backend/internals/features/social/model"
	"schoolchamps_backend/internals/helpers/crypto"
)

/* =========================================================
   In-memory connection store
   ========================================================= */

type memConnStore struct {
	rows map[uuid.UUID]*model.SocialConnectionModel
}

func newMemConnStore() *memConnStore {
	return &memConnStore{rows: map[uuid.UUID]*model.SocialConnectionModel{}}
}

func (s *memConnStore) find(schoolID uuid.UUID, platform model.SocialPlatform) *model.SocialConnectionModel {
	for _, row := range s.rows {
		if row.SocialConnectionSchoolID == schoolID && row.SocialConnectionPlatform == platform {
			return row
		}
	}
	return nil
}

func (s *memConnStore) apply(row *model.SocialConnectionModel, updates map[string]any) {
	for k, v := range updates {
		switch k {
		case "social_connection_connected":
			row.SocialConnectionConnected = v.(bool)
		case "social_connection_access_token":
			row.SocialConnectionAccessToken = v.(string)
		case "social_connection_refresh_token":
			if v == nil {
				row.SocialConnectionRefreshToken = nil
			} else {
				row.SocialConnectionRefreshToken = v.(*string)
			}
		case "social_connection_expires_at":
			t := v.(time.Time)
			row.SocialConnectionExpiresAt = &t
		case "social_connection_target_id":
			id := v.(string)
			row.SocialConnectionTargetID = &id
		case "social_connection_refresh_failures":
			row.SocialConnectionRefreshFailures = v.(int)
		}
	}
}

func (s *memConnStore) Find(_ context.Context, schoolID uuid.UUID, platform model.SocialPlatform) (*model.SocialConnectionModel, error) {
	if row := s.find(schoolID, platform); row != nil {
		cp := *row
		return &cp, nil
	}
	return nil, ErrConnectionNotFound
}

func (s *memConnStore) List(_ context.Context, schoolID uuid.UUID) ([]model.SocialConnectionModel, error) {
	var out []model.SocialConnectionModel
	for _, row := range s.rows {
		if row.SocialConnectionSchoolID == schoolID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *memConnStore) Upsert(_ context.Context, row *model.SocialConnectionModel) error {
	if existing := s.find(row.SocialConnectionSchoolID, row.SocialConnectionPlatform); existing != nil {
		row.SocialConnectionID = existing.SocialConnectionID
	} else if row.SocialConnectionID == uuid.Nil {
		row.SocialConnectionID = uuid.New()
	}
	cp := *row
	s.rows[row.SocialConnectionID] = &cp
	return nil
}

func (s *memConnStore) Update(_ context.Context, schoolID uuid.UUID, platform model.SocialPlatform, updates map[string]any) (int64, error) {
	row := s.find(schoolID, platform)
	if row == nil {
		return 0, nil
	}
	s.apply(row, updates)
	return 1, nil
}

func (s *memConnStore) UpdateByID(_ context.Context, connectionID uuid.UUID, updates map[string]any) error {
	if row, ok := s.rows[connectionID]; ok {
		s.apply(row, updates)
	}
	return nil
}

func (s *memConnStore) RotateToken(_ context.Context, connectionID uuid.UUID, oldCiphertext string, updates map[string]any) (int64, error) {
	row, ok := s.rows[connectionID]
	if !ok || row.SocialConnectionAccessToken != oldCiphertext {
		return 0, nil
	}
	s.apply(row, updates)
	return 1, nil
}

func (s *memConnStore) Reload(_ context.Context, connectionID uuid.UUID) (*model.SocialConnectionModel, error) {
	row, ok := s.rows[connectionID]
	if !ok {
		return nil, ErrConnectionNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *memConnStore) FindExpiring(_ context.Context, deadline time.Time) ([]model.SocialConnectionModel, error) {
	var out []model.SocialConnectionModel
	for _, row := range s.rows {
		if row.SocialConnectionConnected && row.SocialConnectionRefreshToken != nil &&
			row.SocialConnectionExpiresAt != nil && row.SocialConnectionExpiresAt.Before(deadline) {
			out = append(out, *row)
		}
	}
	return out, nil
}

/* =========================================================
   Stubs and fixtures
   ========================================================= */

type scriptedRefresher struct {
	errs  []error
	calls int
}

func (r *scriptedRefresher) Refresh(_ context.Context, _ string) (string, string, time.Time, error) {
	r.calls++
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		if err != nil {
			return "", "", time.Time{}, err
		}
	}
	return "rotated-access", "rotated-refresh", time.Now().Add(2 * time.Hour), nil
}

func testCipher(t *testing.T) *crypto.TokenCipher {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	tc, err := crypto.NewTokenCipher(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	return tc
}

func seedConnection(t *testing.T, store *memConnStore, tc *crypto.TokenCipher, schoolID uuid.UUID) *model.SocialConnectionModel {
	t.Helper()
	encAccess, err := tc.Encrypt("live-access")
	require.NoError(t, err)
	encRefresh, err := tc.Encrypt("live-refresh")
	require.NoError(t, err)
	expires := time.Now().Add(time.Hour)
	row := &model.SocialConnectionModel{
		SocialConnectionID:           uuid.New(),
		SocialConnectionSchoolID:     schoolID,
		SocialConnectionPlatform:     model.PlatformLinkedIn,
		SocialConnectionConnected:    true,
		SocialConnectionAccessToken:  encAccess,
		SocialConnectionRefreshToken: &encRefresh,
		SocialConnectionExpiresAt:    &expires,
	}
	store.rows[row.SocialConnectionID] = row
	return row
}

/* =========================================================
   Tests
   ========================================================= */

func TestRefreshFailuresDisableConnection(t *testing.T) {
	ctx := context.Background()
	store := newMemConnStore()
	tc := testCipher(t)
	schoolID := uuid.New()
	row := seedConnection(t, store, tc, schoolID)

	refresher := &scriptedRefresher{errs: []error{
		errors.New("invalid_grant"),
		errors.New("invalid_grant"),
		errors.New("invalid_grant"),
	}}
	reg := NewRegistry(store, tc)
	reg.RegisterRefresher(model.PlatformLinkedIn, refresher)

	for i := 1; i <= maxRefreshFailures; i++ {
		err := reg.RefreshConnection(ctx, schoolID, model.PlatformLinkedIn)
		require.Error(t, err)
		assert.Equal(t, CodeAuthExpired, CodeOf(err))
		assert.Equal(t, i, store.rows[row.SocialConnectionID].SocialConnectionRefreshFailures)
	}

	stored := store.rows[row.SocialConnectionID]
	assert.False(t, stored.SocialConnectionConnected, "third consecutive failure must disable the connection")

	_, err := reg.GetSnapshot(ctx, schoolID, model.PlatformLinkedIn)
	require.Error(t, err)
	assert.Equal(t, CodeNotConnected, CodeOf(err))
	assert.Equal(t, 3, refresher.calls)
}

func TestRefreshSuccessResetsFailureCount(t *testing.T) {
	ctx := context.Background()
	store := newMemConnStore()
	tc := testCipher(t)
	schoolID := uuid.New()
	row := seedConnection(t, store, tc, schoolID)

	refresher := &scriptedRefresher{errs: []error{errors.New("temporarily unavailable"), nil}}
	reg := NewRegistry(store, tc)
	reg.RegisterRefresher(model.PlatformLinkedIn, refresher)

	require.Error(t, reg.RefreshConnection(ctx, schoolID, model.PlatformLinkedIn))
	assert.Equal(t, 1, store.rows[row.SocialConnectionID].SocialConnectionRefreshFailures)

	require.NoError(t, reg.RefreshConnection(ctx, schoolID, model.PlatformLinkedIn))
	stored := store.rows[row.SocialConnectionID]
	assert.Equal(t, 0, stored.SocialConnectionRefreshFailures)
	assert.True(t, stored.SocialConnectionConnected)

	snap, err := reg.GetSnapshot(ctx, schoolID, model.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, "rotated-access", snap.AccessToken)
}

func TestConcurrentRotationLoserReloadsWinnerToken(t *testing.T) {
	ctx := context.Background()
	store := newMemConnStore()
	tc := testCipher(t)
	schoolID := uuid.New()
	seeded := seedConnection(t, store, tc, schoolID)

	refresher := &scriptedRefresher{}
	reg := NewRegistry(store, tc)
	reg.RegisterRefresher(model.PlatformLinkedIn, refresher)

	// Stale copy, as a second goroutine would hold between read and write.
	stale, err := store.Find(ctx, schoolID, model.PlatformLinkedIn)
	require.NoError(t, err)

	// The winner rotates first; the stored ciphertext no longer matches.
	winnerToken, err := tc.Encrypt("winner-access")
	require.NoError(t, err)
	store.rows[seeded.SocialConnectionID].SocialConnectionAccessToken = winnerToken

	require.NoError(t, reg.refreshRow(ctx, stale))
	assert.Equal(t, winnerToken, stale.SocialConnectionAccessToken,
		"loser must adopt the winner's token instead of overwriting it")
	assert.Equal(t, winnerToken, store.rows[seeded.SocialConnectionID].SocialConnectionAccessToken)
}

func TestDisconnectWipesStoredTokens(t *testing.T) {
	ctx := context.Background()
	store := newMemConnStore()
	tc := testCipher(t)
	schoolID := uuid.New()
	row := seedConnection(t, store, tc, schoolID)

	reg := NewRegistry(store, tc)
	require.NoError(t, reg.Disconnect(ctx, schoolID, model.PlatformLinkedIn))

	stored := store.rows[row.SocialConnectionID]
	assert.False(t, stored.SocialConnectionConnected)
	assert.Empty(t, stored.SocialConnectionAccessToken)
	assert.Nil(t, stored.SocialConnectionRefreshToken)

	err := reg.Disconnect(ctx, uuid.New(), model.PlatformLinkedIn)
	assert.Equal(t, CodeNotConnected, CodeOf(err))
}
