package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hxann/bandprep/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// A pooled second connection would see its own empty in-memory db.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.Result{},
		&model.ResultAnswer{},
		&model.SectionResult{},
		&model.SectionQuestion{},
		&model.PracticeSession{},
		&model.SessionAnswer{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	user := model.User{Name: name, Email: email, Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return &user
}

func seedTest(t *testing.T, db *gorm.DB, title string) *model.Test {
	t.Helper()
	tst := model.Test{Title: title, Type: "academic", Skills: "listening,reading", Status: "published"}
	if err := db.Create(&tst).Error; err != nil {
		t.Fatalf("seed test %s: %v", title, err)
	}
	return &tst
}
