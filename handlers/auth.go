package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ishtiak2/notes-app/repository"
	"github.com/Ishtiak2/notes-app/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for stored password hashes.
const bcryptCost = 10

type AuthHandler struct {
	usersRepo *repository.UsersRepository
	jwtSecret string
}

func NewAuthHandler(usersRepo *repository.UsersRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{usersRepo: usersRepo, jwtSecret: jwtSecret}
}

// AuthMiddleware validates the bearer token and injects the resolved user id
// into the gin context under "userId". Every protected route runs behind it.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, types.NewMessageResponse("Authorization header required"))
			c.Abort()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, types.NewMessageResponse("Invalid authorization header"))
			c.Abort()
			return
		}
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, types.NewMessageResponse("Invalid token"))
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, types.NewMessageResponse("Invalid token claims"))
			c.Abort()
			return
		}
		userID, ok := claims["userId"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, types.NewMessageResponse("userId not found in token"))
			c.Abort()
			return
		}
		c.Set("userId", int(userID))
		c.Next()
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(err.Error()))
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse("Username must be between 3 and 50 characters"))
		return
	}
	if !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse("A valid email is required"))
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse("Password must be at least 6 characters long"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error registering user"))
		return
	}
	user, err := h.usersRepo.CreateUser(req.Username, req.Email, string(hash))
	if err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, types.NewMessageResponse(types.MsgUsernameEmailTaken))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error registering user"))
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(err.Error()))
		return
	}
	user, err := h.usersRepo.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error logging in"))
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, types.NewMessageResponse(types.MsgInvalidCredentials))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, types.NewMessageResponse(types.MsgInvalidCredentials))
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"exp":    time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Failed to generate token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}
