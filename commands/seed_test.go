package commands

import (
	"context"
	"testing"

	"bookshelf/services"
	"bookshelf/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CreatesSampleDataOnce(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, testutil.Clock))
	require.NoError(t, Seed(ctx, db, testutil.Clock))

	books, err := services.NewAuthorService(db).BooksByAuthorName(ctx, "George Orwell")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	held, err := services.NewLibraryService(db).BooksInLibrary(ctx, "Central Library")
	require.NoError(t, err)
	assert.Len(t, held, 3)

	librarian, err := services.NewLibraryService(db).LibrarianForLibrary(ctx, "Central Library")
	require.NoError(t, err)
	assert.Equal(t, "Mr. Smith", librarian.Name)

	total, err := services.NewBookService(db, testutil.Clock).CountBooks(ctx, services.BookFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}
