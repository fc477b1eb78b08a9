package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PermissionRole represents a user's role on one project
type PermissionRole string

const (
	RoleOwner  PermissionRole = "owner"
	RoleEditor PermissionRole = "editor"
	RoleViewer PermissionRole = "viewer"
)

// rank orders roles so "at least editor" style checks stay in one place
func (r PermissionRole) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

// AtLeast reports whether the role grants everything `min` grants
func (r PermissionRole) AtLeast(min PermissionRole) bool {
	return r.rank() >= min.rank()
}

// IsValid reports whether the role is a known member of the enum
func (r PermissionRole) IsValid() bool {
	return r.rank() > 0
}

// ProjectDocument represents the persisted row for one project: flat columns
// for the fields the store filters on, and the full project payload as JSON
type ProjectDocument struct {
	ID        string         `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	OwnerID   string         `json:"owner_id" db:"owner_id" gorm:"type:uuid;not null;index:idx_project_documents_owner"`
	Name      string         `json:"name" db:"name" gorm:"type:text;not null"`
	Status    ProjectStatus  `json:"status" db:"status" gorm:"type:text;not null;default:'draft'"`
	Data      datatypes.JSON `json:"data" db:"data" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at" db:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ProjectPermission represents one user's role on one project
type ProjectPermission struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID string         `json:"project_id" db:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_permissions_unique;constraint:OnDelete:CASCADE"`
	UserID    string         `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_permissions_unique;index:idx_project_permissions_user"`
	Role      PermissionRole `json:"role" db:"role" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" db:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}
