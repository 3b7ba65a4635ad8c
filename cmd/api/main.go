package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestor/internal/auth"
	"gestor/internal/config"
	"gestor/internal/httpserver"
	"gestor/internal/logger"
	"gestor/internal/models"
	"gestor/internal/store"
)

func main() {
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	if cfg.JWTSecret == config.InsecureDefaultSecret {
		lg.Warnw("JWT_SECRET not set, using insecure default; override it in any real deployment")
	}
	if cfg.DatabaseURL == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}

	db, err := store.Open(cfg)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	seedDefaults(db, lg)

	st := store.New(db, cfg.QueryTimeout)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	router := httpserver.NewRouter(st, tokens, lg)

	lg.Infow("listening", "port", cfg.HTTPPort, "token_ttl", cfg.TokenTTL)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

// defaultModules is the catalog of resource categories grants can be
// attached to.
var defaultModules = []models.PermissionModule{
	{Name: "sales", Description: "Sales records"},
	{Name: "customers", Description: "Customer records"},
	{Name: "products", Description: "Product catalog"},
	{Name: "reports", Description: "Reporting"},
	{Name: "companies", Description: "Tenant administration"},
	{Name: "settings", Description: "System settings and permissions"},
}

// seedDefaults makes a fresh database usable: the module catalog, a
// system admin role with full grants, a default company and one
// active admin user.
func seedDefaults(db *gorm.DB, lg *zap.SugaredLogger) {
	for _, m := range defaultModules {
		db.Where(models.PermissionModule{Name: m.Name}).FirstOrCreate(&m)
	}

	var adminRole models.Role
	if err := db.Where("name = ? AND company_id IS NULL", "admin").First(&adminRole).Error; err != nil {
		adminRole = models.Role{Name: "admin", Description: "System administrator"}
		if err := db.Create(&adminRole).Error; err != nil {
			lg.Errorw("seed admin role failed", "error", err)
			return
		}
	}
	for _, m := range defaultModules {
		rp := models.RolePermission{RoleID: adminRole.ID, ModuleName: m.Name, CanRead: true, CanWrite: true, CanDelete: true}
		db.Where(models.RolePermission{RoleID: adminRole.ID, ModuleName: m.Name}).FirstOrCreate(&rp)
	}

	var company models.Company
	if err := db.First(&company, "document = ?", "00000000000").Error; err != nil {
		company = models.Company{Name: "Empresa Padrão", Document: "00000000000", Email: "admin@sistema.com"}
		if err := db.Create(&company).Error; err != nil {
			lg.Errorw("seed default company failed", "error", err)
			return
		}
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@sistema.com").Count(&count)
	if count > 0 {
		return
	}
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		lg.Errorw("seed admin hash failed", "error", err)
		return
	}
	admin := models.User{
		Email:        "admin@sistema.com",
		PasswordHash: hash,
		Name:         "Administrador",
		IsActive:     true,
		CompanyID:    &company.ID,
		RoleID:       &adminRole.ID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		lg.Errorw("seed admin user failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", admin.Email)
}
