// Package store is the gorm-backed repository behind the auth core's
// narrow read interfaces and the handlers' write paths. Every call
// runs under a bounded timeout so a slow database cannot stall the
// authorization path.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gestor/internal/auth"
	"gestor/internal/models"
)

type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

func New(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, timeout: timeout}
}

// withTimeout derives the bounded query context. The caller's context
// is the parent, so abandoning a request cancels the query too.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, mapErr("find user by email", err)
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapErr("find user by id", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (s *Store) FindRole(ctx context.Context, id string) (*models.Role, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var r models.Role
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, mapErr("find role", err)
	}
	return &r, nil
}

func (s *Store) FindRolePermission(ctx context.Context, roleID, moduleName string) (*models.RolePermission, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var rp models.RolePermission
	err := s.db.WithContext(ctx).First(&rp, "role_id = ? AND module_name = ?", roleID, moduleName).Error
	if err != nil {
		return nil, mapErr("find role permission", err)
	}
	return &rp, nil
}

func (s *Store) ListRolePermissions(ctx context.Context, roleID string) ([]models.RolePermission, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var rps []models.RolePermission
	if err := s.db.WithContext(ctx).Where("role_id = ?", roleID).Order("module_name").Find(&rps).Error; err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	return rps, nil
}

// UpsertRolePermission writes the single grants row for a
// (role, module) pair, creating it when absent.
func (s *Store) UpsertRolePermission(ctx context.Context, rp *models.RolePermission) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(rp).Error
	if err != nil {
		return fmt.Errorf("upsert role permission: %w", err)
	}
	return nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var cs []models.Company
	if err := s.db.WithContext(ctx).Order("name").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return cs, nil
}

func (s *Store) FindCompany(ctx context.Context, id string) (*models.Company, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var c models.Company
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, mapErr("find company", err)
	}
	return &c, nil
}

// AppendAuditLog records an audit entry. Failures are returned, not
// swallowed; callers decide whether auditing is best-effort.
func (s *Store) AppendAuditLog(ctx context.Context, entry *models.AuditLog) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, userID string, limit int) ([]models.AuditLog, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	q := s.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
