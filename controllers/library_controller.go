package controllers

import (
	"net/http"

	"bookshelf/middleware"
	"bookshelf/models"
	"bookshelf/services"

	"github.com/gin-gonic/gin"
)

type LibraryController struct {
	libraryService *services.LibraryService
	authorService  *services.AuthorService
}

func NewLibraryController(libraryService *services.LibraryService, authorService *services.AuthorService) *LibraryController {
	return &LibraryController{
		libraryService: libraryService,
		authorService:  authorService,
	}
}

func (lc *LibraryController) ListLibraries(c *gin.Context) {
	libraries, err := lc.libraryService.ListLibraries(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": libraries})
}

// GetLibrary returns the library with its books and librarians.
func (lc *LibraryController) GetLibrary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	library, err := lc.libraryService.GetLibrary(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": library})
}

func (lc *LibraryController) CreateLibrary(c *gin.Context) {
	var req models.CreateLibraryRequest
	if !bindJSON(c, &req) {
		return
	}

	library, err := lc.libraryService.CreateLibrary(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": library})
}

func (lc *LibraryController) AddBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.AddLibraryBookRequest
	if !bindJSON(c, &req) {
		return
	}

	library, err := lc.libraryService.AddBook(c.Request.Context(), id, req.BookID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": library})
}

func (lc *LibraryController) RemoveBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return
	}

	library, err := lc.libraryService.RemoveBook(c.Request.Context(), id, bookID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": library})
}

func (lc *LibraryController) CreateLibrarian(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CreateLibrarianRequest
	if !bindJSON(c, &req) {
		return
	}

	librarian, err := lc.libraryService.CreateLibrarian(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": librarian})
}

func (lc *LibraryController) GetLibrarian(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	librarian, err := lc.libraryService.LibrarianFor(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": librarian})
}

// RoleView greets callers who passed the role gate in front of it.
func (lc *LibraryController) RoleView(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := middleware.CallerFrom(c)
		if caller == nil {
			_ = c.Error(models.ErrUnauthenticated)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"view":     role,
			"username": caller.Username,
			"message":  "Welcome to the " + role + " view, " + caller.Username + ".",
		})
	}
}

func (lc *LibraryController) BooksByAuthor(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		_ = c.Error(models.NewFieldError("name", "This field is required."))
		return
	}

	books, err := lc.authorService.BooksByAuthorName(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

func (lc *LibraryController) BooksInLibrary(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		_ = c.Error(models.NewFieldError("name", "This field is required."))
		return
	}

	books, err := lc.libraryService.BooksInLibrary(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

func (lc *LibraryController) LibrarianForLibrary(c *gin.Context) {
	name := c.Query("library")
	if name == "" {
		_ = c.Error(models.NewFieldError("library", "This field is required."))
		return
	}

	librarian, err := lc.libraryService.LibrarianForLibrary(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": librarian})
}
