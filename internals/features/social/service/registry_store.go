// file: internals/features/social/service/registry_store.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolchamps_backend/internals/features/social/model"
)

// ErrConnectionNotFound: no row for the (school, platform) pair.
var ErrConnectionNotFound = errors.New("social connection not found")

// ConnectionStore is the registry's persistence boundary. The gorm
// implementation below is the production one; tests stub it in memory.
type ConnectionStore interface {
	Find(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform) (*model.SocialConnectionModel, error)
	List(ctx context.Context, schoolID uuid.UUID) ([]model.SocialConnectionModel, error)
	Upsert(ctx context.Context, row *model.SocialConnectionModel) error
	// Update applies the fields to the (school, platform) row and reports
	// how many rows matched.
	Update(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform, updates map[string]any) (int64, error)
	UpdateByID(ctx context.Context, connectionID uuid.UUID, updates map[string]any) error
	// RotateToken applies the fields only if the stored access-token
	// ciphertext still equals oldCiphertext (CAS); zero rows means a
	// concurrent rotation won.
	RotateToken(ctx context.Context, connectionID uuid.UUID, oldCiphertext string, updates map[string]any) (int64, error)
	Reload(ctx context.Context, connectionID uuid.UUID) (*model.SocialConnectionModel, error)
	// FindExpiring returns connected, refreshable rows expiring before the deadline.
	FindExpiring(ctx context.Context, deadline time.Time) ([]model.SocialConnectionModel, error)
}

type GormConnectionStore struct {
	db *gorm.DB
}

func NewGormConnectionStore(db *gorm.DB) *GormConnectionStore {
	return &GormConnectionStore{db: db}
}

func (s *GormConnectionStore) Find(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform) (*model.SocialConnectionModel, error) {
	var row model.SocialConnectionModel
	err := s.db.WithContext(ctx).
		Where("social_connection_school_id = ? AND social_connection_platform = ?", schoolID, platform).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormConnectionStore) List(ctx context.Context, schoolID uuid.UUID) ([]model.SocialConnectionModel, error) {
	var rows []model.SocialConnectionModel
	err := s.db.WithContext(ctx).
		Where("social_connection_school_id = ?", schoolID).
		Order("social_connection_platform asc").
		Find(&rows).Error
	return rows, err
}

func (s *GormConnectionStore) Upsert(ctx context.Context, row *model.SocialConnectionModel) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "social_connection_school_id"},
			{Name: "social_connection_platform"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"social_connection_connected",
			"social_connection_access_token",
			"social_connection_refresh_token",
			"social_connection_expires_at",
			"social_connection_target_id",
			"social_connection_metadata",
			"social_connection_refresh_failures",
		}),
	}).Create(row).Error
}

func (s *GormConnectionStore) Update(ctx context.Context, schoolID uuid.UUID, platform model.SocialPlatform, updates map[string]any) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.SocialConnectionModel{}).
		Where("social_connection_school_id = ? AND social_connection_platform = ?", schoolID, platform).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *GormConnectionStore) UpdateByID(ctx context.Context, connectionID uuid.UUID, updates map[string]any) error {
	return s.db.WithContext(ctx).Model(&model.SocialConnectionModel{}).
		Where("social_connection_id = ?", connectionID).
		Updates(updates).Error
}

func (s *GormConnectionStore) RotateToken(ctx context.Context, connectionID uuid.UUID, oldCiphertext string, updates map[string]any) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.SocialConnectionModel{}).
		Where("social_connection_id = ? AND social_connection_access_token = ?", connectionID, oldCiphertext).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *GormConnectionStore) Reload(ctx context.Context, connectionID uuid.UUID) (*model.SocialConnectionModel, error) {
	var row model.SocialConnectionModel
	err := s.db.WithContext(ctx).
		Where("social_connection_id = ?", connectionID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormConnectionStore) FindExpiring(ctx context.Context, deadline time.Time) ([]model.SocialConnectionModel, error) {
	var rows []model.SocialConnectionModel
	err := s.db.WithContext(ctx).
		Where("social_connection_connected = ? AND social_connection_refresh_token IS NOT NULL", true).
		Where("social_connection_expires_at IS NOT NULL AND social_connection_expires_at < ?", deadline).
		Find(&rows).Error
	return rows, err
}
