package database

import (
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedDefaultsBootstrapsAdminAndCategories(t *testing.T) {
	db := newTestDB(t)
	accounts := &config.AccountsConfig{
		AdminName:     "Administrator",
		AdminEmail:    "root@example.com",
		AdminPassword: "Bootstrap@2024",
	}

	seedDefaults(db, accounts)

	var admin model.User
	require.NoError(t, db.Where("role = ?", model.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "root@example.com", admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("Bootstrap@2024")))

	var categories int64
	require.NoError(t, db.Model(&model.Category{}).Count(&categories).Error)
	assert.EqualValues(t, 5, categories)

	// The seeded account is a working login, not just a row.
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "unit-test-secret-key-0123456789abcdef", ExpireTime: time.Hour}
	auth := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewStudentRepository(db),
		repository.NewInstructorRepository(db),
		cfg,
	)
	resp, err := auth.AdminLogin(service.AdminLoginRequest{
		Email:    "root@example.com",
		Password: "Bootstrap@2024",
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resp.UserID)

	// Re-running the seed leaves existing rows alone.
	seedDefaults(db, accounts)

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&admins).Error)
	assert.EqualValues(t, 1, admins)
	require.NoError(t, db.Model(&model.Category{}).Count(&categories).Error)
	assert.EqualValues(t, 5, categories)
}

func TestSeedDefaultsSkipsAdminWithoutCredentials(t *testing.T) {
	db := newTestDB(t)

	seedDefaults(db, &config.AccountsConfig{})

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&admins).Error)
	assert.Zero(t, admins)
}

func TestSeedDefaultsKeepsExistingAdmin(t *testing.T) {
	db := newTestDB(t)

	existing := model.User{
		Name:     "Site Admin",
		Email:    "present@example.com",
		Password: "already-hashed",
		Role:     model.RoleAdmin,
	}
	require.NoError(t, db.Create(&existing).Error)

	seedDefaults(db, &config.AccountsConfig{
		AdminEmail:    "root@example.com",
		AdminPassword: "Bootstrap@2024",
	})

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&admins).Error)
	assert.EqualValues(t, 1, admins)
}
