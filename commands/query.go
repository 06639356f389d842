package commands

import (
	"fmt"
	"io"

	"bookshelf/models"
	"bookshelf/services"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run the sample relationship queries",
	Long: `Run the sample relationship queries against the configured database.

Examples:
  bookshelf query books-by-author "George Orwell"
  bookshelf query library-books "Central Library"
  bookshelf query librarian "Central Library"`,
}

var booksByAuthorCmd = &cobra.Command{
	Use:   "books-by-author NAME",
	Short: "List the books written by an author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		books, err := services.NewAuthorService(db).BooksByAuthorName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printBooks(cmd.OutOrStdout(), books)
		return nil
	},
}

var libraryBooksCmd = &cobra.Command{
	Use:   "library-books NAME",
	Short: "List the books held by a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		books, err := services.NewLibraryService(db).BooksInLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printBooks(cmd.OutOrStdout(), books)
		return nil
	},
}

var librarianCmd = &cobra.Command{
	Use:   "librarian LIBRARY",
	Short: "Show the librarian of a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		librarian, err := services.NewLibraryService(db).LibrarianForLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), librarian.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(booksByAuthorCmd, libraryBooksCmd, librarianCmd)
}

func printBooks(w io.Writer, books []models.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "(no books)")
		return
	}
	for _, b := range books {
		fmt.Fprintf(w, "%d\t%s\t%d\n", b.ID, b.Title, b.PublicationYear)
	}
}
