package testutil

import (
	"fmt"
	"testing"
	"time"

	"bookshelf/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FixedNow is the clock used by service tests.
var FixedNow = time.Date(2024, time.September, 1, 12, 0, 0, 0, time.UTC)

func Clock() time.Time { return FixedNow }

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user with the given role and a profile.
func CreateUser(t *testing.T, db *gorm.DB, username, role string, codenames ...string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
		Role:     role,
		IsActive: true,
		Profile:  &models.Profile{},
	}
	if err := user.HashPassword(); err != nil {
		t.Fatalf("hash: %v", err)
	}
	for _, code := range codenames {
		perm := models.Permission{Codename: code}
		if err := db.Where(&perm).FirstOrCreate(&perm).Error; err != nil {
			t.Fatalf("permission %s: %v", code, err)
		}
		user.Permissions = append(user.Permissions, perm)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateAuthor(t *testing.T, db *gorm.DB, name string) *models.Author {
	t.Helper()

	author := &models.Author{Name: name}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	return author
}

func CreateBook(t *testing.T, db *gorm.DB, title string, year int, authorID uint) *models.Book {
	t.Helper()

	book := &models.Book{Title: title, PublicationYear: year, AuthorID: authorID}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("create book: %v", err)
	}
	return book
}
