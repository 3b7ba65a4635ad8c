package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant boundary. Users and roles belong to at most
// one company; roles without a company are system-level.
type Company struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Document  string    `gorm:"size:20;uniqueIndex;not null" json:"document"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	City      string    `gorm:"size:100" json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null;uniqueIndex:idx_roles_name_company" json:"name"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CompanyID   *string   `gorm:"type:uuid;uniqueIndex:idx_roles_name_company" json:"company_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CompanyID    *string   `gorm:"type:uuid" json:"company_id,omitempty"`
	RoleID       *string   `gorm:"type:uuid" json:"role_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PermissionModule is a named resource category ("sales", "customers").
// The name itself is the primary key.
type PermissionModule struct {
	Name        string `gorm:"size:50;primaryKey" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

// RolePermission carries the three grants a role holds on a module.
// At most one row per (role, module); no row means no grants.
type RolePermission struct {
	RoleID     string `gorm:"type:uuid;primaryKey" json:"role_id"`
	ModuleName string `gorm:"size:50;primaryKey" json:"module_name"`
	CanRead    bool   `gorm:"not null;default:false" json:"can_read"`
	CanWrite   bool   `gorm:"not null;default:false" json:"can_write"`
	CanDelete  bool   `gorm:"not null;default:false" json:"can_delete"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
