package controllers

import (
	"net/http"

	"bookshelf/models"
	"bookshelf/services"

	"github.com/gin-gonic/gin"
)

type AuthorController struct {
	authorService *services.AuthorService
	bookService   *services.BookService
}

func NewAuthorController(authorService *services.AuthorService, bookService *services.BookService) *AuthorController {
	return &AuthorController{
		authorService: authorService,
		bookService:   bookService,
	}
}

// ListAuthors returns every author with its books nested.
func (ac *AuthorController) ListAuthors(c *gin.Context) {
	authors, err := ac.authorService.ListAuthors(c.Request.Context(), c.Query("search"), c.Query("ordering"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": authors})
}

func (ac *AuthorController) GetAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	author, err := ac.authorService.GetAuthor(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": author})
}

func (ac *AuthorController) CreateAuthor(c *gin.Context) {
	var req models.CreateAuthorRequest
	if !bindJSON(c, &req) {
		return
	}

	author, err := ac.authorService.CreateAuthor(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Author created successfully!",
		"data":    author,
	})
}

// DeleteAuthor removes the author and its books.
func (ac *AuthorController) DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.authorService.DeleteAuthor(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ac *AuthorController) GetAuthorBooks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := ac.authorService.GetAuthor(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	books, err := ac.bookService.ListBooks(c.Request.Context(), services.BookFilter{AuthorID: &id, Ordering: c.Query("ordering")})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}
