package controllers

import (
	"net/http"

	"bookshelf/middleware"
	"bookshelf/models"
	"bookshelf/services"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	postService    *services.PostService
	commentService *services.CommentService
}

func NewPostController(postService *services.PostService, commentService *services.CommentService) *PostController {
	return &PostController{
		postService:    postService,
		commentService: commentService,
	}
}

// Home returns the blog landing payload: post count and the latest page.
func (pc *PostController) Home(c *gin.Context) {
	latest, err := pc.postService.ListPosts(c.Request.Context(), services.PostFilter{})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Welcome to the blog",
		"total_posts": latest.Total,
		"latest":      latest.Items,
	})
}

// ListPosts godoc
// @Summary List blog posts, newest first
// @Tags blog
// @Produce json
// @Param q query string false "Substring of title, content or tag"
// @Param tag query string false "Exact tag name"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Router /blog/posts [get]
func (pc *PostController) ListPosts(c *gin.Context) {
	page, err := pc.postService.ListPosts(c.Request.Context(), services.PostFilter{
		Q:    c.Query("q"),
		Tag:  c.Query("tag"),
		Page: c.Query("page"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (pc *PostController) PostsByTag(c *gin.Context) {
	page, err := pc.postService.PostsByTag(c.Request.Context(), c.Param("tag"), c.Query("page"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (pc *PostController) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := pc.postService.CreatePost(c.Request.Context(), middleware.CallerFrom(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// UpdatePost is allowed only for the post's author.
func (pc *PostController) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := pc.postService.UpdatePost(c.Request.Context(), middleware.CallerFrom(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (pc *PostController) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.postService.DeletePost(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (pc *PostController) ListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := pc.commentService.ListComments(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (pc *PostController) CreateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := pc.commentService.CreateComment(c.Request.Context(), middleware.CallerFrom(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (pc *PostController) UpdateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := pc.commentService.UpdateComment(c.Request.Context(), middleware.CallerFrom(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

func (pc *PostController) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.commentService.DeleteComment(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
