package routes

import (
	"net/http"

	"bookshelf/controllers"
	"bookshelf/handlers"
	"bookshelf/middleware"
	"bookshelf/models"
	"bookshelf/permissions"
	"bookshelf/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Books     *controllers.BookController
	Authors   *controllers.AuthorController
	Libraries *controllers.LibraryController
	Posts     *controllers.PostController
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(r *gin.Engine, h *Handlers, tokens *utils.TokenManager, resolver middleware.CallerResolver) {
	authRequired := middleware.AuthRequired(tokens, resolver)
	optionalAuth := middleware.OptionalAuth(tokens, resolver)
	staff := middleware.RoleRequired(models.RoleLibrarian, models.RoleAdmin)
	adminOnly := middleware.RoleRequired(models.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", authRequired, h.Auth.Logout)
			auth.GET("/me", authRequired, h.Auth.Me)
		}

		users := api.Group("/users")
		users.Use(authRequired)
		{
			users.GET("", h.Users.GetUsers)
			users.GET("/me/profile", h.Users.GetProfile)
			users.PUT("/me/profile", h.Users.UpdateProfile)
			users.GET("/:id", h.Users.GetUser)
			users.PUT("/:id", h.Users.UpdateUser)
			users.DELETE("/:id", h.Users.DeleteUser)
			users.PUT("/:id/role", adminOnly, h.Users.SetRole)
			users.POST("/:id/permissions", adminOnly, h.Users.GrantPermission)
			users.DELETE("/:id/permissions/:codename", adminOnly, h.Users.RevokePermission)
		}

		books := api.Group("/books")
		{
			books.GET("", optionalAuth, h.Books.ListBooks)
			books.GET("/:id", optionalAuth, h.Books.GetBook)
			books.POST("", authRequired, h.Books.CreateBook)
			books.PUT("/:id", authRequired, h.Books.UpdateBook)
			books.PATCH("/:id", authRequired, h.Books.UpdateBook)
			books.DELETE("/:id", authRequired, h.Books.DeleteBook)
		}

		authors := api.Group("/authors")
		{
			authors.GET("", optionalAuth, h.Authors.ListAuthors)
			authors.GET("/:id", optionalAuth, h.Authors.GetAuthor)
			authors.GET("/:id/books", optionalAuth, h.Authors.GetAuthorBooks)
			authors.POST("", authRequired, h.Authors.CreateAuthor)
			authors.DELETE("/:id", authRequired, h.Authors.DeleteAuthor)
		}

		bookshelf := api.Group("/bookshelf/books")
		bookshelf.Use(authRequired)
		{
			bookshelf.GET("", middleware.PermissionRequired(permissions.CanViewBook), h.Books.ListBooks)
			bookshelf.GET("/:id", middleware.PermissionRequired(permissions.CanViewBook), h.Books.GetBook)
			bookshelf.POST("", middleware.PermissionRequired(permissions.CanCreateBook), h.Books.CreateBook)
			bookshelf.PUT("/:id", middleware.PermissionRequired(permissions.CanEditBook), h.Books.UpdateBook)
			bookshelf.DELETE("/:id", middleware.PermissionRequired(permissions.CanDeleteBook), h.Books.DeleteBook)
		}

		rel := api.Group("/relationships")
		{
			rel.GET("/books", optionalAuth, h.Books.ListBooks)
			rel.POST("/books/add", authRequired, middleware.PermissionRequired(permissions.CanAddBook), h.Books.CreateBook)
			rel.PUT("/books/:id/change", authRequired, middleware.PermissionRequired(permissions.CanChangeBook), h.Books.UpdateBook)
			rel.DELETE("/books/:id/delete", authRequired, middleware.PermissionRequired(permissions.CanRemoveBook), h.Books.DeleteBook)

			rel.GET("/libraries", optionalAuth, h.Libraries.ListLibraries)
			rel.GET("/libraries/:id", optionalAuth, h.Libraries.GetLibrary)
			rel.GET("/libraries/:id/librarian", optionalAuth, h.Libraries.GetLibrarian)
			rel.POST("/libraries", authRequired, staff, h.Libraries.CreateLibrary)
			rel.POST("/libraries/:id/books", authRequired, staff, h.Libraries.AddBook)
			rel.DELETE("/libraries/:id/books/:bookId", authRequired, staff, h.Libraries.RemoveBook)
			rel.POST("/libraries/:id/librarians", authRequired, adminOnly, h.Libraries.CreateLibrarian)

			rel.GET("/admin", authRequired, adminOnly, h.Libraries.RoleView(models.RoleAdmin))
			rel.GET("/librarian", authRequired, middleware.RoleRequired(models.RoleLibrarian), h.Libraries.RoleView(models.RoleLibrarian))
			rel.GET("/member", authRequired, middleware.RoleRequired(models.RoleMember), h.Libraries.RoleView(models.RoleMember))

			rel.GET("/query/books-by-author", optionalAuth, h.Libraries.BooksByAuthor)
			rel.GET("/query/library-books", optionalAuth, h.Libraries.BooksInLibrary)
			rel.GET("/query/librarian", optionalAuth, h.Libraries.LibrarianForLibrary)
		}

		blog := api.Group("/blog")
		{
			blog.GET("/home", optionalAuth, h.Posts.Home)
			blog.GET("/posts", optionalAuth, h.Posts.ListPosts)
			blog.GET("/posts/:id", optionalAuth, h.Posts.GetPost)
			blog.POST("/posts", authRequired, h.Posts.CreatePost)
			blog.PUT("/posts/:id", authRequired, h.Posts.UpdatePost)
			blog.DELETE("/posts/:id", authRequired, h.Posts.DeletePost)
			blog.GET("/tags/:tag", optionalAuth, h.Posts.PostsByTag)

			blog.GET("/posts/:id/comments", optionalAuth, h.Posts.ListComments)
			blog.POST("/posts/:id/comments", authRequired, h.Posts.CreateComment)
			blog.PUT("/comments/:id", authRequired, h.Posts.UpdateComment)
			blog.DELETE("/comments/:id", authRequired, h.Posts.DeleteComment)

			blog.GET("/ws", authRequired, h.WebSocket.HandleWebSocket)
		}
	}
}
