package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookshelf/config"
	"bookshelf/models"
	"bookshelf/permissions"
	"bookshelf/services"
	"bookshelf/testutil"
	"bookshelf/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	tokens *utils.TokenManager
}

type bookJSON struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	Author          uint   `json:"author"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour, PostsPerPage: 5}
	db := testutil.NewDB(t)
	hub := services.NewHubService()
	t.Cleanup(hub.Close)

	return &testServer{
		t:      t,
		db:     db,
		engine: NewEngine(cfg, db, hub, testutil.Clock),
		tokens: utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
	}
}

func (s *testServer) login(username, role string, codenames ...string) string {
	s.t.Helper()
	user := testutil.CreateUser(s.t, s.db, username, role, codenames...)
	token, err := s.tokens.GenerateJWT(user.ID)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestBookAPI_ExampleFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login("tester", models.RoleMember)

	w := s.do(http.MethodPost, "/api/v1/authors", token, gin.H{"name": "Test Author"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	author := decode[envelope[models.Author]](t, w).Data

	w = s.do(http.MethodPost, "/api/v1/books", token, gin.H{
		"title": "Test Book", "publication_year": 2024, "author": author.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[envelope[bookJSON]](t, w)
	assert.Equal(t, "Book created successfully!", created.Message)
	assert.Equal(t, author.ID, created.Data.Author)

	w = s.do(http.MethodGet, "/api/v1/books", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[envelope[[]bookJSON]](t, w).Data
	require.Len(t, list, 1)
	assert.Equal(t, "Test Book", list[0].Title)

	path := fmt.Sprintf("/api/v1/books/%d", created.Data.ID)
	w = s.do(http.MethodPatch, path, token, gin.H{"title": "Updated Book"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Book updated successfully!", decode[envelope[bookJSON]](t, w).Message)

	w = s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated Book", decode[envelope[bookJSON]](t, w).Data.Title)

	w = s.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/books", "", nil)
	assert.Empty(t, decode[envelope[[]bookJSON]](t, w).Data)

	w = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookAPI_AuthAndValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login("tester", models.RoleMember)
	author := testutil.CreateAuthor(t, s.db, "A")
	book := testutil.CreateBook(t, s.db, "B", 2000, author.ID)
	path := fmt.Sprintf("/api/v1/books/%d", book.ID)

	w := s.do(http.MethodPost, "/api/v1/books", "", gin.H{"title": "x", "publication_year": 2000, "author": author.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodDelete, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/books", token, gin.H{"title": "Later", "publication_year": 2025, "author": author.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decode[struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, "Publication year cannot be in the future (>2024).", errBody.Fields["publication_year"])

	w = s.do(http.MethodPut, path, token, gin.H{"title": "Only title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, token, gin.H{"title": "Full", "publication_year": 2001, "author": author.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/books/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookAPI_FilterSearchOrder(t *testing.T) {
	s := newTestServer(t)
	orwell := testutil.CreateAuthor(t, s.db, "George Orwell")
	tolkien := testutil.CreateAuthor(t, s.db, "J.R.R. Tolkien")
	testutil.CreateBook(t, s.db, "1984", 1949, orwell.ID)
	testutil.CreateBook(t, s.db, "Animal Farm", 1945, orwell.ID)
	testutil.CreateBook(t, s.db, "The Hobbit", 1937, tolkien.ID)

	w := s.do(http.MethodGet, "/api/v1/books?publication_year=1945", "", nil)
	byYear := decode[envelope[[]bookJSON]](t, w).Data
	require.Len(t, byYear, 1)
	assert.Equal(t, 1945, byYear[0].PublicationYear)

	w = s.do(http.MethodGet, "/api/v1/books?search=hobbit", "", nil)
	assert.Len(t, decode[envelope[[]bookJSON]](t, w).Data, 1)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/books?author=%d", orwell.ID), "", nil)
	assert.Len(t, decode[envelope[[]bookJSON]](t, w).Data, 2)

	w = s.do(http.MethodGet, "/api/v1/books?ordering=publication_year", "", nil)
	ordered := decode[envelope[[]bookJSON]](t, w).Data
	require.Len(t, ordered, 3)
	for i := 1; i < len(ordered); i++ {
		assert.LessOrEqual(t, ordered[i-1].PublicationYear, ordered[i].PublicationYear)
	}

	w = s.do(http.MethodGet, "/api/v1/books?publication_year=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/authors/%d", orwell.ID), s.login("admin", models.RoleAdmin), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodGet, "/api/v1/books", "", nil)
	assert.Len(t, decode[envelope[[]bookJSON]](t, w).Data, 1)
}

func TestBookshelf_CapabilityGate(t *testing.T) {
	s := newTestServer(t)
	member := s.login("member", models.RoleMember)
	editor := s.login("editor", models.RoleMember, permissions.CanCreateBook)
	author := testutil.CreateAuthor(t, s.db, "A")
	body := gin.H{"title": "Gated", "publication_year": 2000, "author": author.ID}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/bookshelf/books", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/bookshelf/books", member, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/bookshelf/books", member, body).Code)

	w := s.do(http.MethodPost, "/api/v1/bookshelf/books", editor, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[envelope[bookJSON]](t, w).Data.ID

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/bookshelf/books/%d", id), editor, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/bookshelf/books/%d", id), s.login("boss", models.RoleAdmin), nil).Code)
}

func TestRelationships_RolesAndQueries(t *testing.T) {
	s := newTestServer(t)
	member := s.login("member", models.RoleMember)
	librarian := s.login("keeper", models.RoleLibrarian)
	admin := s.login("root", models.RoleAdmin)
	author := testutil.CreateAuthor(t, s.db, "George Orwell")
	book := testutil.CreateBook(t, s.db, "1984", 1949, author.ID)

	lib := gin.H{"name": "Central Library", "book_ids": []uint{book.ID}}
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/relationships/libraries", member, lib).Code)
	w := s.do(http.MethodPost, "/api/v1/relationships/libraries", librarian, lib)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	libraryID := decode[envelope[models.Library]](t, w).Data.ID

	staffPath := fmt.Sprintf("/api/v1/relationships/libraries/%d/librarians", libraryID)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, staffPath, librarian, gin.H{"name": "Mr. Smith"}).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, staffPath, admin, gin.H{"name": "Mr. Smith"}).Code)

	w = s.do(http.MethodGet, "/api/v1/relationships/query/librarian?library=Central+Library", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mr. Smith", decode[envelope[models.Librarian]](t, w).Data.Name)

	w = s.do(http.MethodGet, "/api/v1/relationships/query/books-by-author?name=George+Orwell", "", nil)
	assert.Len(t, decode[envelope[[]bookJSON]](t, w).Data, 1)

	w = s.do(http.MethodGet, "/api/v1/relationships/query/library-books?name=Nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/relationships/admin", admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/relationships/admin", member, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/relationships/member", member, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/relationships/librarian", member, nil).Code)

	change := fmt.Sprintf("/api/v1/relationships/books/%d/change", book.ID)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, change, member, gin.H{"title": "x", "publication_year": 1949, "author": author.ID}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, change, librarian, gin.H{"title": "Nineteen Eighty-Four", "publication_year": 1949, "author": author.ID}).Code)
}

func TestAccounts_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "new@example.com", "username": "newbie", "password": "secret123", "bio": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "new@example.com", "username": "newbie", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "newbie", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "newbie", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	require.NotEmpty(t, token)

	w = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "newbie", decode[envelope[models.User]](t, w).Data.Username)

	w = s.do(http.MethodGet, "/api/v1/users/me/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", decode[envelope[models.Profile]](t, w).Data.Bio)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)
}

func TestBlog_OwnerOnlyMutation(t *testing.T) {
	s := newTestServer(t)
	owner := s.login("owner", models.RoleMember)
	other := s.login("other", models.RoleMember)

	w := s.do(http.MethodPost, "/api/v1/blog/posts", owner, gin.H{"title": "Hello", "content": "World", "tags": []string{"Go"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[envelope[models.Post]](t, w).Data
	path := fmt.Sprintf("/api/v1/blog/posts/%d", post.ID)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, path, other, gin.H{"title": "Mine now"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, path, other, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodDelete, path, "", nil).Code)

	w = s.do(http.MethodPost, path+"/comments", other, gin.H{"content": "Nice"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/blog/posts?tag=go", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[utils.Page[models.Post]](t, w)
	assert.EqualValues(t, 1, page.Total)

	w = s.do(http.MethodGet, "/api/v1/blog/tags/go", "", nil)
	assert.EqualValues(t, 1, decode[utils.Page[models.Post]](t, w).Total)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, path, owner, gin.H{"title": "Hello again"}).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, owner, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, "", nil).Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
