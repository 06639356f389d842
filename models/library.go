package models

import (
	"time"

	"gorm.io/gorm"
)

type Library struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null;index"`
	Books      []Book         `json:"books,omitempty" gorm:"many2many:library_books;"`
	Librarians []Librarian    `json:"librarians,omitempty" gorm:"foreignKey:LibraryID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// Librarian belongs to one Library. Nothing stops a Library from having
// several; lookups return the earliest one.
type Librarian struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	LibraryID uint           `json:"library_id" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type CreateLibraryRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	BookIDs []uint `json:"book_ids"`
}

type AddLibraryBookRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}

type CreateLibrarianRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}
