package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"not null"`
	Content       string         `json:"content" gorm:"type:text"`
	AuthorID      uint           `json:"author_id" gorm:"not null;index"`
	Author        *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PublishedDate time.Time      `json:"published_date" gorm:"not null;index"`
	Tags          []Tag          `json:"tags" gorm:"many2many:post_tags;"`
	Comments      []Comment      `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type Comment struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	PostID      uint           `json:"post_id" gorm:"not null;index"`
	AuthorID    uint           `json:"author_id" gorm:"not null;index"`
	Author      *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	CreatedDate time.Time      `json:"created_date" gorm:"autoCreateTime"`
	UpdatedDate time.Time      `json:"updated_date" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required,min=1,max=200"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title   *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// NormalizeTags lower-cases, trims and de-duplicates tag names, keeping
// first-seen order.
func NormalizeTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
