// file: internals/features/social/service/registry_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"schoolchamps_backend/internals/features/social/model"
	"schoolchamps_backend/internals/helpers/crypto"
)

/* =========================================================
   SOCIAL CONNECTION REGISTRY

   Owns every touch of a social token: encrypt on write,
   decrypt only into a short-lived Snapshot, never into a
   response body. Token rotation uses a CAS on the stored
   ciphertext so two concurrent refreshes cannot clobber
   each other.
   ========================================================= */

// refreshWindow: tokens inside this window are refreshed before use.
const refreshWindow = 30 * time.Minute

// maxRefreshFailures: after this many consecutive failures the
// connection flips to disconnected and needs a manual reconnect.
const maxRefreshFailures = 3

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, expiresAt time.Time, err error)
}

// Snapshot is a decrypted, point-in-time view of one connection.
// It lives on the stack of a single post attempt and is never stored.
type Snapshot struct {
	ConnectionID uuid.UUID
	SchoolID     uuid.UUID
	Platform     model.SocialPlatform
	AccessToken  string
	TargetID     string
	ExpiresAt    *time.Time
}

type Registry struct {
	store      ConnectionStore
	cipher     *crypto.TokenCipher
	refreshers map[model.SocialPlatform]TokenRefresher
}

func NewRegistry(store ConnectionStore, cipher *crypto.TokenCipher) *Registry {
	return &Registry{
		store:      store,
		cipher:     cipher,
		refreshers: make(map[model.SocialPlatform]TokenRefresher),
	}
}

func (r *Registry) RegisterRefresher(platform model.SocialPlatform, ref TokenRefresher) {
	r.refreshers[platform] = ref
}

/* ===================== reads ===================== */

// GetSnapshot returns a usable decrypted connection for one platform,
// refreshing the token first when it is expired or about to expire.
func (r *Registry) GetSnapshot(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform) (*Snapshot, error) {
	row, err := r.store.Find(ctx, schoolID, platform)
	if err != nil {
		if errors.Is(err, ErrConnectionNotFound) {
			return nil, NewPlatformError(platform, CodeNotConnected, errors.New("platform not connected"))
		}
		return nil, err
	}
	if !row.SocialConnectionConnected {
		return nil, NewPlatformError(platform, CodeNotConnected, errors.New("connection is disabled"))
	}

	if r.needsRefresh(row) {
		if err := r.refreshRow(ctx, row); err != nil {
			return nil, err
		}
	}

	token, err := r.cipher.Decrypt(row.SocialConnectionAccessToken)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s token: %w", platform, err)
	}
	targetID := ""
	if row.SocialConnectionTargetID != nil {
		targetID = *row.SocialConnectionTargetID
	}
	return &Snapshot{
		ConnectionID: row.SocialConnectionID,
		SchoolID:     row.SocialConnectionSchoolID,
		Platform:     row.SocialConnectionPlatform,
		AccessToken:  token,
		TargetID:     targetID,
		ExpiresAt:    row.SocialConnectionExpiresAt,
	}, nil
}

// ListConnections returns the (token-free) connection rows for one school.
func (r *Registry) ListConnections(ctx context.Context, schoolID uuid.UUID) ([]model.SocialConnectionModel, error) {
	return r.store.List(ctx, schoolID)
}

/* ===================== writes ===================== */

type SaveConnectionInput struct {
	SchoolID     uuid.UUID
	Platform     model.SocialPlatform
	AccessToken  string
	RefreshToken string
	TargetID     string
	ExpiresAt    *time.Time
	Metadata     datatypes.JSON
}

// SaveConnection encrypts the tokens and upserts the (school, platform) row.
func (r *Registry) SaveConnection(ctx context.Context, in SaveConnectionInput) (*model.SocialConnectionModel, error) {
	encAccess, err := r.cipher.Encrypt(in.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt access token: %w", err)
	}
	var encRefresh *string
	if in.RefreshToken != "" {
		enc, err := r.cipher.Encrypt(in.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("encrypt refresh token: %w", err)
		}
		encRefresh = &enc
	}
	var targetID *string
	if in.TargetID != "" {
		targetID = &in.TargetID
	}

	row := model.SocialConnectionModel{
		SocialConnectionSchoolID:     in.SchoolID,
		SocialConnectionPlatform:     in.Platform,
		SocialConnectionConnected:    true,
		SocialConnectionAccessToken:  encAccess,
		SocialConnectionRefreshToken: encRefresh,
		SocialConnectionExpiresAt:    in.ExpiresAt,
		SocialConnectionTargetID:     targetID,
		SocialConnectionMetadata:     in.Metadata,
	}

	if err := r.store.Upsert(ctx, &row); err != nil {
		return nil, err
	}
	log.Printf("[SOCIAL] connection saved school=%s platform=%s", in.SchoolID, in.Platform)
	return &row, nil
}

// SetTarget records the selected page / organization for a connection.
func (r *Registry) SetTarget(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform, targetID string) error {
	n, err := r.store.Update(ctx, schoolID, platform, map[string]any{
		"social_connection_target_id": targetID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return NewPlatformError(platform, CodeNotConnected, errors.New("platform not connected"))
	}
	return nil
}

// Disconnect disables a connection and wipes its stored tokens.
func (r *Registry) Disconnect(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform) error {
	n, err := r.store.Update(ctx, schoolID, platform, map[string]any{
		"social_connection_connected":     false,
		"social_connection_access_token":  "",
		"social_connection_refresh_token": nil,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return NewPlatformError(platform, CodeNotConnected, errors.New("platform not connected"))
	}
	log.Printf("[SOCIAL] disconnected school=%s platform=%s", schoolID, platform)
	return nil
}

/* ===================== token rotation ===================== */

func (r *Registry) needsRefresh(row *model.SocialConnectionModel) bool {
	if row.SocialConnectionExpiresAt == nil {
		return false // long-lived token
	}
	return time.Until(*row.SocialConnectionExpiresAt) < refreshWindow
}

// RefreshConnection force-rotates the token for one connection.
func (r *Registry) RefreshConnection(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform) error {
	row, err := r.store.Find(ctx, schoolID, platform)
	if err != nil {
		if errors.Is(err, ErrConnectionNotFound) {
			return NewPlatformError(platform, CodeNotConnected, errors.New("platform not connected"))
		}
		return err
	}
	return r.refreshRow(ctx, row)
}

func (r *Registry) refreshRow(ctx context.Context, row *model.SocialConnectionModel) error {
	platform := row.SocialConnectionPlatform
	refresher, ok := r.refreshers[platform]
	if !ok || row.SocialConnectionRefreshToken == nil {
		// no rotation path: an expired token is simply dead
		if row.SocialConnectionExpiresAt != nil && time.Now().After(*row.SocialConnectionExpiresAt) {
			return NewPlatformError(platform, CodeAuthExpired, errors.New("token expired and no refresh available"))
		}
		return nil
	}

	refreshToken, err := r.cipher.Decrypt(*row.SocialConnectionRefreshToken)
	if err != nil {
		return fmt.Errorf("decrypt refresh token: %w", err)
	}

	access, refresh, expiresAt, err := refresher.Refresh(ctx, refreshToken)
	if err != nil {
		r.recordRefreshFailure(ctx, row, err)
		return NewPlatformError(platform, CodeAuthExpired, fmt.Errorf("token refresh failed: %w", err))
	}

	encAccess, err := r.cipher.Encrypt(access)
	if err != nil {
		return fmt.Errorf("encrypt rotated token: %w", err)
	}
	encRefresh := row.SocialConnectionRefreshToken
	if refresh != "" {
		enc, err := r.cipher.Encrypt(refresh)
		if err != nil {
			return fmt.Errorf("encrypt rotated refresh token: %w", err)
		}
		encRefresh = &enc
	}

	// CAS on the old ciphertext: whoever rotates first wins, the loser
	// re-reads the winner's token instead of overwriting it.
	n, err := r.store.RotateToken(ctx, row.SocialConnectionID, row.SocialConnectionAccessToken, map[string]any{
		"social_connection_access_token":     encAccess,
		"social_connection_refresh_token":    encRefresh,
		"social_connection_expires_at":       expiresAt,
		"social_connection_refresh_failures": 0,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		log.Printf("[SOCIAL] concurrent refresh detected for connection=%s, reloading", row.SocialConnectionID)
		fresh, err := r.store.Reload(ctx, row.SocialConnectionID)
		if err != nil {
			return err
		}
		*row = *fresh
		return nil
	}

	row.SocialConnectionAccessToken = encAccess
	row.SocialConnectionRefreshToken = encRefresh
	row.SocialConnectionExpiresAt = &expiresAt
	row.SocialConnectionRefreshFailures = 0
	log.Printf("[SOCIAL] token rotated school=%s platform=%s", row.SocialConnectionSchoolID, platform)
	return nil
}

func (r *Registry) recordRefreshFailure(ctx context.Context, row *model.SocialConnectionModel, cause error) {
	failures := row.SocialConnectionRefreshFailures + 1
	updates := map[string]any{"social_connection_refresh_failures": failures}
	if failures >= maxRefreshFailures {
		updates["social_connection_connected"] = false
		log.Printf("[SOCIAL] connection school=%s platform=%s disabled after %d refresh failures (last: %v)",
			row.SocialConnectionSchoolID, row.SocialConnectionPlatform, failures, cause)
	} else {
		log.Printf("[SOCIAL] refresh failure %d/%d school=%s platform=%s: %v",
			failures, maxRefreshFailures, row.SocialConnectionSchoolID, row.SocialConnectionPlatform, cause)
	}
	if err := r.store.UpdateByID(ctx, row.SocialConnectionID, updates); err != nil {
		log.Printf("[SOCIAL] failed to record refresh failure: %v", err)
	}
}

// SweepExpiring refreshes every connected row whose token expires within
// the horizon. Called by the daily scheduler.
func (r *Registry) SweepExpiring(ctx context.Context, horizon time.Duration) {
	rows, err := r.store.FindExpiring(ctx, time.Now().Add(horizon))
	if err != nil {
		log.Printf("[SOCIAL][SWEEP] query failed: %v", err)
		return
	}
	log.Printf("[SOCIAL][SWEEP] %d connection(s) due for rotation", len(rows))
	for i := range rows {
		if err := r.refreshRow(ctx, &rows[i]); err != nil {
			log.Printf("[SOCIAL][SWEEP] rotation failed connection=%s: %v", rows[i].SocialConnectionID, err)
		}
	}
}
