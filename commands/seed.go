package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bookshelf/database"
	"bookshelf/models"
	"bookshelf/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample authors, books, library and librarian",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		return Seed(cmd.Context(), db, time.Now)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type sampleBook struct {
	title  string
	year   int
	author string
}

var sampleBooks = []sampleBook{
	{"1984", 1949, "George Orwell"},
	{"Animal Farm", 1945, "George Orwell"},
	{"The Hobbit", 1937, "J.R.R. Tolkien"},
}

const (
	sampleLibrary   = "Central Library"
	sampleLibrarian = "Mr. Smith"
)

// Seed creates the sample data once; a second run is a no-op.
func Seed(ctx context.Context, db *gorm.DB, now func() time.Time) error {
	authorService := services.NewAuthorService(db)
	bookService := services.NewBookService(db, now)
	libraryService := services.NewLibraryService(db)

	if _, err := libraryService.GetLibraryByName(ctx, sampleLibrary); err == nil {
		log.Println("Sample data already present, skipping")
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	authorIDs := map[string]uint{}
	var bookIDs []uint
	for _, sb := range sampleBooks {
		if _, ok := authorIDs[sb.author]; !ok {
			author, err := authorService.CreateAuthor(ctx, &models.CreateAuthorRequest{Name: sb.author})
			if err != nil {
				return fmt.Errorf("seed author %s: %w", sb.author, err)
			}
			authorIDs[sb.author] = author.ID
		}

		book, err := bookService.CreateBook(ctx, &models.CreateBookRequest{
			Title:           sb.title,
			PublicationYear: sb.year,
			AuthorID:        authorIDs[sb.author],
		})
		if err != nil {
			return fmt.Errorf("seed book %s: %w", sb.title, err)
		}
		bookIDs = append(bookIDs, book.ID)
	}

	library, err := libraryService.CreateLibrary(ctx, &models.CreateLibraryRequest{
		Name:    sampleLibrary,
		BookIDs: bookIDs,
	})
	if err != nil {
		return fmt.Errorf("seed library: %w", err)
	}

	if _, err := libraryService.CreateLibrarian(ctx, library.ID, &models.CreateLibrarianRequest{Name: sampleLibrarian}); err != nil {
		return fmt.Errorf("seed librarian: %w", err)
	}

	log.Printf("Seeded %d authors, %d books, library %q with librarian %q",
		len(authorIDs), len(bookIDs), sampleLibrary, sampleLibrarian)
	return nil
}
