package controllers

import (
	"net/http"

	"bookshelf/middleware"
	"bookshelf/models"
	"bookshelf/services"
	"bookshelf/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userService *services.UserService
	tokens      *utils.TokenManager
}

func NewAuthController(userService *services.UserService, tokens *utils.TokenManager) *AuthController {
	return &AuthController{
		userService: userService,
		tokens:      tokens,
	}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.CreateUserRequest true "Account"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ac.userService.CreateUser(c.Request.Context(), &req, models.RoleMember)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := ac.tokens.GenerateJWT(user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    user,
		"token":   token,
	})
}

// Login godoc
// @Summary Exchange credentials for a token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Username or email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ac.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := ac.tokens.GenerateJWT(user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    user,
		"token":   token,
	})
}

// Logout is stateless: tokens expire on their own and clients drop them.
func (ac *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if caller == nil {
		_ = c.Error(models.ErrUnauthenticated)
		return
	}

	user, err := ac.userService.GetUserByID(c.Request.Context(), caller.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
