// file: internals/features/schools/model/school_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL: schools

   SchoolCoins is a materialized read model. The credit
   transaction log is the source of truth; the ledger service
   reconciles this column inside every mutating transaction.
   ========================================================= */

type SchoolModel struct {
	SchoolID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:school_id" json:"school_id"`

	SchoolName    string `gorm:"type:varchar(160);not null;column:school_name" json:"school_name"`
	SchoolAddress string `gorm:"type:text;column:school_address" json:"school_address"`
	SchoolCity    string `gorm:"type:varchar(80);column:school_city" json:"school_city"`
	SchoolState   string `gorm:"type:varchar(80);column:school_state" json:"school_state"`
	SchoolPincode string `gorm:"type:varchar(12);column:school_pincode" json:"school_pincode"`

	SchoolContactEmail  string `gorm:"type:varchar(160);column:school_contact_email" json:"school_contact_email"`
	SchoolContactPhone  string `gorm:"type:varchar(24);column:school_contact_phone" json:"school_contact_phone"`
	SchoolPrincipalName string `gorm:"type:varchar(120);column:school_principal_name" json:"school_principal_name"`

	SchoolLogoURL *string `gorm:"type:text;column:school_logo_url" json:"school_logo_url,omitempty"`
	SchoolWebsite *string `gorm:"type:text;column:school_website" json:"school_website,omitempty"`

	SchoolIsActive bool `gorm:"type:boolean;not null;default:true;column:school_is_active" json:"school_is_active"`

	// Derived coin balance (see ledger service)
	SchoolCoins int `gorm:"type:integer;not null;default:0;column:school_coins" json:"school_coins"`

	// Audit
	SchoolCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:school_created_at" json:"school_created_at"`
	SchoolUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:school_updated_at" json:"school_updated_at"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"school_deleted_at,omitempty"`
}

func (SchoolModel) TableName() string { return "schools" }
