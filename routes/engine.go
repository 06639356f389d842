package routes

import (
	"time"

	"bookshelf/config"
	"bookshelf/controllers"
	"bookshelf/handlers"
	"bookshelf/middleware"
	"bookshelf/services"
	"bookshelf/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "bookshelf/docs"
)

// NewEngine wires services, controllers and middleware into a gin engine.
// hub must be running; now may be nil to use the wall clock.
func NewEngine(cfg *config.Config, db *gorm.DB, hub *services.HubService, now func() time.Time) *gin.Engine {
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	userService := services.NewUserService(db)
	bookService := services.NewBookService(db, now)
	authorService := services.NewAuthorService(db)
	libraryService := services.NewLibraryService(db)
	postService := services.NewPostService(db, cfg.PostsPerPage, now, hub)
	commentService := services.NewCommentService(postService, hub)

	h := &Handlers{
		Auth:      controllers.NewAuthController(userService, tokens),
		Users:     controllers.NewUserController(userService),
		Books:     controllers.NewBookController(bookService),
		Authors:   controllers.NewAuthorController(authorService, bookService),
		Libraries: controllers.NewLibraryController(libraryService, authorService),
		Posts:     controllers.NewPostController(postService, commentService),
		WebSocket: handlers.NewWebSocketHandler(hub, cfg.AllowedOrigins),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())

	SetupRoutes(r, h, tokens, userService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
