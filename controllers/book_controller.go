package controllers

import (
	"net/http"
	"strings"

	"bookshelf/models"
	"bookshelf/services"

	"github.com/gin-gonic/gin"
)

// BookController serves the book API. The same handlers back the
// capability-gated bookshelf and relationship routes.
type BookController struct {
	bookService *services.BookService
}

func NewBookController(bookService *services.BookService) *BookController {
	return &BookController{
		bookService: bookService,
	}
}

// ListBooks godoc
// @Summary List books
// @Tags books
// @Produce json
// @Param publication_year query int false "Exact publication year"
// @Param author query int false "Author ID"
// @Param search query string false "Substring of the title"
// @Param ordering query string false "title, publication_year or id; prefix with - for descending"
// @Success 200 {object} map[string]interface{}
// @Router /books [get]
func (bc *BookController) ListBooks(c *gin.Context) {
	year, ok := queryInt(c, "publication_year")
	if !ok {
		return
	}
	authorID, ok := queryUint(c, "author")
	if !ok {
		return
	}

	books, err := bc.bookService.ListBooks(c.Request.Context(), services.BookFilter{
		PublicationYear: year,
		AuthorID:        authorID,
		Search:          strings.TrimSpace(c.Query("search")),
		Ordering:        c.Query("ordering"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

// GetBook godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} middleware.ErrorResponse
// @Router /books/{id} [get]
func (bc *BookController) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	book, err := bc.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": book})
}

// CreateBook godoc
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book body models.CreateBookRequest true "Book"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /books [post]
func (bc *BookController) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := bc.bookService.CreateBook(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully!",
		"data":    book,
	})
}

// UpdateBook handles PUT (every field required) and PATCH (any subset).
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param book body models.UpdateBookRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /books/{id} [put]
// @Router /books/{id} [patch]
func (bc *BookController) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut {
		if err := req.Complete(); err != nil {
			_ = c.Error(err)
			return
		}
	}

	book, err := bc.bookService.UpdateBook(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully!",
		"data":    book,
	})
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags books
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /books/{id} [delete]
func (bc *BookController) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := bc.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
