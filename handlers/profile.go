package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Ishtiak2/notes-app/models"
	"github.com/Ishtiak2/notes-app/repository"
	"github.com/Ishtiak2/notes-app/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type ProfileHandler struct {
	usersRepo *repository.UsersRepository
	notesRepo *repository.NotesRepository
}

func NewProfileHandler(usersRepo *repository.UsersRepository, notesRepo *repository.NotesRepository) *ProfileHandler {
	return &ProfileHandler{usersRepo: usersRepo, notesRepo: notesRepo}
}

// GetProfile returns the caller's public profile plus a derived notes count.
// The count is a separate statement; a count that is stale relative to a
// concurrent note write is acceptable.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("userId")
	user, err := h.usersRepo.GetUserByID(userID)
	if err != nil {
		slog.Error("fetching profile", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error fetching profile"))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgUserNotFound))
		return
	}
	count, err := h.notesRepo.CountByUser(userID)
	if err != nil {
		slog.Error("counting notes", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error fetching profile"))
		return
	}
	c.JSON(http.StatusOK, models.ProfileWithNotes{
		Profile: models.Profile{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		NotesCount: count,
	})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgUsernameEmailRequired))
		return
	}
	if req.Username == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgUsernameEmailRequired))
		return
	}

	userID := c.GetInt("userId")
	taken, err := h.usersRepo.UsernameOrEmailTaken(req.Username, req.Email, userID)
	if err != nil {
		slog.Error("checking profile conflict", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error updating profile"))
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgUsernameEmailTaken))
		return
	}

	if err := h.usersRepo.UpdateProfile(userID, req.Username, req.Email); err != nil {
		// The pre-check races with concurrent updates; the unique constraint
		// is the authority.
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgUsernameEmailTaken))
			return
		}
		slog.Error("updating profile", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error updating profile"))
		return
	}

	user, err := h.usersRepo.GetUserByID(userID)
	if err != nil || user == nil {
		slog.Error("reloading profile", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error updating profile"))
		return
	}
	c.JSON(http.StatusOK, models.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgPasswordsRequired))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgPasswordsRequired))
		return
	}
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgNewPasswordTooShort))
		return
	}

	userID := c.GetInt("userId")
	user, err := h.usersRepo.GetUserByID(userID)
	if err != nil {
		slog.Error("fetching user for password change", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error changing password"))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgUserNotFound))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgCurrentPasswordWrong))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error changing password"))
		return
	}
	if err := h.usersRepo.UpdatePassword(userID, string(hash)); err != nil {
		slog.Error("updating password", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error changing password"))
		return
	}
	c.JSON(http.StatusOK, types.NewMessageResponse(types.MsgPasswordChanged))
}

// DeleteAccount removes the user after verifying the password. Owned notes
// are removed by the cascade rule in the same statement's transaction.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgPasswordRequired))
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgPasswordRequired))
		return
	}

	userID := c.GetInt("userId")
	user, err := h.usersRepo.GetUserByID(userID)
	if err != nil {
		slog.Error("fetching user for account delete", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error deleting account"))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgUserNotFound))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgPasswordWrong))
		return
	}

	deleted, err := h.usersRepo.DeleteUser(userID)
	if err != nil {
		slog.Error("deleting account", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error deleting account"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgUserNotFound))
		return
	}
	c.JSON(http.StatusOK, types.NewMessageResponse(types.MsgAccountDeleted))
}
