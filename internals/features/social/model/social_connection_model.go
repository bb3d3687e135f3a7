// file: internals/features/social/model/social_connection_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   ENUM: SocialPlatform
   ========================================================= */

type SocialPlatform string

const (
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformLinkedIn  SocialPlatform = "linkedin"
)

func (p SocialPlatform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformLinkedIn:
		return true
	default:
		return false
	}
}

func AllPlatforms() []SocialPlatform {
	return []SocialPlatform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn}
}

/* =========================================================
   MODEL: social_connections

   One row per (school, platform). Tokens are stored as
   AES-256-GCM ciphertext and only decrypted inside the
   registry; they are never serialized back to a client.
   A connected row must hold a non-expired token at the
   instant of use; repeated refresh failure flips
   connected=false.
   ========================================================= */

type SocialConnectionModel struct {
	SocialConnectionID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:social_connection_id" json:"social_connection_id"`
	SocialConnectionSchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_social_connection_school_platform;column:social_connection_school_id" json:"social_connection_school_id"`

	SocialConnectionPlatform SocialPlatform `gorm:"type:varchar(12);not null;uniqueIndex:ux_social_connection_school_platform;column:social_connection_platform" json:"social_connection_platform"`

	SocialConnectionConnected bool `gorm:"type:boolean;not null;default:false;column:social_connection_connected" json:"social_connection_connected"`

	// ciphertext, never exposed
	SocialConnectionAccessToken  string  `gorm:"type:text;not null;column:social_connection_access_token" json:"-"`
	SocialConnectionRefreshToken *string `gorm:"type:text;column:social_connection_refresh_token" json:"-"`

	SocialConnectionExpiresAt *time.Time `gorm:"type:timestamptz;column:social_connection_expires_at" json:"social_connection_expires_at,omitempty"`

	// page / IG business account / org URN, nullable until selected
	SocialConnectionTargetID *string `gorm:"type:varchar(120);column:social_connection_target_id" json:"social_connection_target_id,omitempty"`

	// free-form (selected page name, scopes)
	SocialConnectionMetadata datatypes.JSON `gorm:"column:social_connection_metadata" json:"social_connection_metadata,omitempty"`

	SocialConnectionRefreshFailures int `gorm:"type:integer;not null;default:0;column:social_connection_refresh_failures" json:"-"`

	// Audit
	SocialConnectionCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:social_connection_created_at" json:"social_connection_created_at"`
	SocialConnectionUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:social_connection_updated_at" json:"social_connection_updated_at"`
	SocialConnectionDeletedAt gorm.DeletedAt `gorm:"column:social_connection_deleted_at;index" json:"social_connection_deleted_at,omitempty"`
}

func (SocialConnectionModel) TableName() string { return "social_connections" }
