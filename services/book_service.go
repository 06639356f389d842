package services

import (
	"context"
	"errors"
	"time"

	"bookshelf/database"
	"bookshelf/models"

	"gorm.io/gorm"
)

var bookOrderingFields = []string{"id", "title", "publication_year"}

// BookFilter holds the list parameters accepted by the book endpoints.
type BookFilter struct {
	PublicationYear *int
	AuthorID        *uint
	Search          string
	Ordering        string
}

type BookService struct {
	db      *gorm.DB
	books   *database.Store[models.Book]
	authors *database.Store[models.Author]
	now     func() time.Time
}

func NewBookService(db *gorm.DB, now func() time.Time) *BookService {
	if now == nil {
		now = time.Now
	}
	return &BookService{
		db:      db,
		books:   database.NewStore[models.Book](db, "book"),
		authors: database.NewStore[models.Author](db, "author"),
		now:     now,
	}
}

func (s *BookService) ListBooks(ctx context.Context, f BookFilter) ([]models.Book, error) {
	return s.books.List(ctx, s.query(f))
}

func (s *BookService) CountBooks(ctx context.Context, f BookFilter) (int64, error) {
	return s.books.Count(ctx, s.query(f))
}

func (s *BookService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	return s.books.Get(ctx, id)
}

func (s *BookService) CreateBook(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		AuthorID:        req.AuthorID,
	}
	if err := models.ValidateBook(book, s.now()); err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, book.AuthorID); err != nil {
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook applies a partial update; callers enforce completeness for PUT.
func (s *BookService) UpdateBook(ctx context.Context, id uint, req *models.UpdateBookRequest) (*models.Book, error) {
	book, err := s.books.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		book.Title = *req.Title
		updates["title"] = *req.Title
	}
	if req.PublicationYear != nil {
		book.PublicationYear = *req.PublicationYear
		updates["publication_year"] = *req.PublicationYear
	}
	if req.AuthorID != nil {
		book.AuthorID = *req.AuthorID
		updates["author_id"] = *req.AuthorID
	}

	if err := models.ValidateBook(book, s.now()); err != nil {
		return nil, err
	}
	if req.AuthorID != nil {
		if err := s.requireAuthor(ctx, *req.AuthorID); err != nil {
			return nil, err
		}
	}

	return s.books.Update(ctx, id, updates)
}

func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM library_books WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		return s.books.WithTx(tx).Delete(ctx, id)
	})
}

func (s *BookService) query(f BookFilter) database.Query {
	q := database.Query{
		Filters:         map[string]interface{}{},
		Search:          f.Search,
		SearchFields:    []string{"title"},
		Ordering:        f.Ordering,
		OrderingFields:  bookOrderingFields,
		DefaultOrdering: "id",
	}
	if f.PublicationYear != nil {
		q.Filters["publication_year"] = *f.PublicationYear
	}
	if f.AuthorID != nil {
		q.Filters["author_id"] = *f.AuthorID
	}
	return q
}

func (s *BookService) requireAuthor(ctx context.Context, id uint) error {
	if _, err := s.authors.Get(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewFieldError("author", "Invalid pk - object does not exist.")
		}
		return err
	}
	return nil
}
