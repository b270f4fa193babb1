package database

import (
	"fmt"
	"log"

	"lms_backend/internal/config"
	"lms_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the enroll and attendance write paths
	// rely on to resolve concurrent duplicate submissions.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db, &cfg.Accounts)

	return db, nil
}

// Migrate creates or updates the schema for every model. The unique indexes
// on enrollments and both attendance tables are the final arbiter for
// concurrent duplicate submissions.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Instructor{},
		&model.Category{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.Material{},
		&model.Video{},
		&model.Enrollment{},
		&model.Attendance{},
		&model.TrainerAttendance{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
	)
}

// seedDefaults inserts the default course categories and the bootstrap admin
// account on an empty database. Without the admin seed a fresh deployment has
// no way to log in, since account creation itself is admin-gated.
func seedDefaults(db *gorm.DB, accounts *config.AccountsConfig) {
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaults := []model.Category{
			{Name: "Programming", Description: "Software development and coding"},
			{Name: "Design", Description: "Graphic and product design"},
			{Name: "Business", Description: "Management, marketing and finance"},
			{Name: "Languages", Description: "Foreign language training"},
			{Name: "Data Science", Description: "Statistics, ML and analytics"},
		}
		for _, c := range defaults {
			db.Create(&c)
		}
	}

	seedAdmin(db, accounts)
}

func seedAdmin(db *gorm.DB, accounts *config.AccountsConfig) {
	if accounts.AdminEmail == "" || accounts.AdminPassword == "" {
		return
	}

	var count int64
	db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(accounts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	name := accounts.AdminName
	if name == "" {
		name = "Administrator"
	}
	admin := model.User{
		Name:     name,
		Email:    accounts.AdminEmail,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s; change the password after first login", accounts.AdminEmail)
}
