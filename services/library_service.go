package services

import (
	"context"
	"strings"

	"bookshelf/database"
	"bookshelf/models"

	"gorm.io/gorm"
)

type LibraryService struct {
	db         *gorm.DB
	libraries  *database.Store[models.Library]
	librarians *database.Store[models.Librarian]
	books      *database.Store[models.Book]
}

func NewLibraryService(db *gorm.DB) *LibraryService {
	return &LibraryService{
		db:         db,
		libraries:  database.NewStore[models.Library](db, "library"),
		librarians: database.NewStore[models.Librarian](db, "librarian"),
		books:      database.NewStore[models.Book](db, "book"),
	}
}

func (s *LibraryService) CreateLibrary(ctx context.Context, req *models.CreateLibraryRequest) (*models.Library, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewFieldError("name", "This field may not be blank.")
	}

	books, err := s.loadBooks(ctx, req.BookIDs)
	if err != nil {
		return nil, err
	}

	library := &models.Library{Name: name, Books: books}
	if err := s.libraries.Create(ctx, library); err != nil {
		return nil, err
	}
	return s.GetLibrary(ctx, library.ID)
}

func (s *LibraryService) ListLibraries(ctx context.Context) ([]models.Library, error) {
	return s.libraries.List(ctx, database.Query{DefaultOrdering: "id"})
}

func (s *LibraryService) GetLibrary(ctx context.Context, id uint) (*models.Library, error) {
	return s.libraries.Get(ctx, id, "Books", "Librarians")
}

func (s *LibraryService) AddBook(ctx context.Context, libraryID, bookID uint) (*models.Library, error) {
	library, err := s.libraries.Get(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(library).Association("Books").Append(book); err != nil {
		return nil, err
	}
	return s.GetLibrary(ctx, libraryID)
}

func (s *LibraryService) RemoveBook(ctx context.Context, libraryID, bookID uint) (*models.Library, error) {
	library, err := s.libraries.Get(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(library).Association("Books").Delete(book); err != nil {
		return nil, err
	}
	return s.GetLibrary(ctx, libraryID)
}

// CreateLibrarian attaches a librarian to a library. A second librarian for
// the same library is accepted.
func (s *LibraryService) CreateLibrarian(ctx context.Context, libraryID uint, req *models.CreateLibrarianRequest) (*models.Librarian, error) {
	if _, err := s.libraries.Get(ctx, libraryID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewFieldError("name", "This field may not be blank.")
	}

	librarian := &models.Librarian{Name: name, LibraryID: libraryID}
	if err := s.librarians.Create(ctx, librarian); err != nil {
		return nil, err
	}
	return librarian, nil
}

// LibrarianFor returns the earliest librarian of the library.
func (s *LibraryService) LibrarianFor(ctx context.Context, libraryID uint) (*models.Librarian, error) {
	if _, err := s.libraries.Get(ctx, libraryID); err != nil {
		return nil, err
	}
	return s.librarians.First(ctx, database.Query{
		Filters:         map[string]interface{}{"library_id": libraryID},
		DefaultOrdering: "id",
	})
}

func (s *LibraryService) GetLibraryByName(ctx context.Context, name string) (*models.Library, error) {
	return s.libraries.First(ctx, database.Query{
		Filters:         map[string]interface{}{"name": name},
		DefaultOrdering: "id",
		Preloads:        []string{"Books", "Librarians"},
	})
}

func (s *LibraryService) BooksInLibrary(ctx context.Context, name string) ([]models.Book, error) {
	library, err := s.GetLibraryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return library.Books, nil
}

func (s *LibraryService) LibrarianForLibrary(ctx context.Context, name string) (*models.Librarian, error) {
	library, err := s.GetLibraryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.LibrarianFor(ctx, library.ID)
}

func (s *LibraryService) loadBooks(ctx context.Context, ids []uint) ([]models.Book, error) {
	books := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.books.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, nil
}
