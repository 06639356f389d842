package services

import (
	"context"
	"strings"

	"bookshelf/database"
	"bookshelf/models"

	"gorm.io/gorm"
)

type AuthorService struct {
	db      *gorm.DB
	authors *database.Store[models.Author]
	books   *database.Store[models.Book]
}

func NewAuthorService(db *gorm.DB) *AuthorService {
	return &AuthorService{
		db:      db,
		authors: database.NewStore[models.Author](db, "author"),
		books:   database.NewStore[models.Book](db, "book"),
	}
}

func (s *AuthorService) CreateAuthor(ctx context.Context, req *models.CreateAuthorRequest) (*models.Author, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewFieldError("name", "This field may not be blank.")
	}

	author := &models.Author{Name: name, Books: []models.Book{}}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *AuthorService) ListAuthors(ctx context.Context, search, ordering string) ([]models.Author, error) {
	return s.authors.List(ctx, database.Query{
		Search:          search,
		SearchFields:    []string{"name"},
		Ordering:        ordering,
		OrderingFields:  []string{"id", "name"},
		DefaultOrdering: "id",
		Preloads:        []string{"Books"},
	})
}

func (s *AuthorService) GetAuthor(ctx context.Context, id uint) (*models.Author, error) {
	return s.authors.Get(ctx, id, "Books")
}

// DeleteAuthor removes the author and every book written by them.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id uint) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.authors.WithTx(tx).Get(ctx, id); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM library_books WHERE book_id IN (SELECT id FROM books WHERE author_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Book{}).Error; err != nil {
			return err
		}
		return s.authors.WithTx(tx).Delete(ctx, id)
	})
}

// BooksByAuthorName returns the books of the author with exactly this name.
func (s *AuthorService) BooksByAuthorName(ctx context.Context, name string) ([]models.Book, error) {
	author, err := s.authors.First(ctx, database.Query{
		Filters:         map[string]interface{}{"name": name},
		DefaultOrdering: "id",
	})
	if err != nil {
		return nil, err
	}
	return s.books.List(ctx, database.Query{
		Filters:         map[string]interface{}{"author_id": author.ID},
		DefaultOrdering: "id",
	})
}
