package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Author has many Books; deleting an Author removes its Books.
type Author struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;index"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Books     []Book         `json:"books" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

type Book struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Title           string         `json:"title" gorm:"not null;index"`
	PublicationYear int            `json:"publication_year" gorm:"not null;index"`
	AuthorID        uint           `json:"author" gorm:"not null;index"`
	Author          *Author        `json:"-" gorm:"foreignKey:AuthorID"`
	Libraries       []Library      `json:"-" gorm:"many2many:library_books;"`
	CreatedAt       time.Time      `json:"-"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

type CreateAuthorRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

type CreateBookRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	PublicationYear int    `json:"publication_year" binding:"required"`
	AuthorID        uint   `json:"author" binding:"required"`
}

// UpdateBookRequest serves PATCH (any subset) and PUT (all fields).
type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=200"`
	PublicationYear *int    `json:"publication_year"`
	AuthorID        *uint   `json:"author"`
}

func (r *UpdateBookRequest) Complete() error {
	missing := map[string]string{}
	if r.Title == nil {
		missing["title"] = "This field is required."
	}
	if r.PublicationYear == nil {
		missing["publication_year"] = "This field is required."
	}
	if r.AuthorID == nil {
		missing["author"] = "This field is required."
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "missing required fields", Fields: missing}
	}
	return nil
}

// ValidatePublicationYear rejects years after the calendar year of now.
func ValidatePublicationYear(year int, now time.Time) error {
	current := now.Year()
	if year > current {
		return NewFieldError("publication_year",
			fmt.Sprintf("Publication year cannot be in the future (>%d).", current))
	}
	return nil
}

func ValidateBook(b *Book, now time.Time) error {
	if strings.TrimSpace(b.Title) == "" {
		return NewFieldError("title", "This field may not be blank.")
	}
	if b.AuthorID == 0 {
		return NewFieldError("author", "This field is required.")
	}
	return ValidatePublicationYear(b.PublicationYear, now)
}
