package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Ishtiak2/notes-app/pkg/events"
	"github.com/Ishtiak2/notes-app/pkg/notify"
	"github.com/Ishtiak2/notes-app/repository"
	"github.com/Ishtiak2/notes-app/types"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct {
	repo     *repository.NotesRepository
	notifier notify.Notifier
}

func NewNotesHandler(repo *repository.NotesRepository) *NotesHandler {
	return &NotesHandler{repo: repo}
}

func (h *NotesHandler) WithNotifier(n notify.Notifier) *NotesHandler {
	h.notifier = n
	return h
}

func (h *NotesHandler) notifyChanged(userID int, eventType string, noteID int) {
	if h.notifier == nil {
		return
	}
	h.notifier.NotifyUser(userID, events.NoteChanged{Type: eventType, NoteID: noteID})
}

// GetNotes lists the caller's notes, newest first, optionally filtered by a
// substring search over title and content.
func (h *NotesHandler) GetNotes(c *gin.Context) {
	userID := c.GetInt("userId")
	search := c.Query("search")

	notes, err := h.repo.GetNotes(userID, search)
	if err != nil {
		slog.Error("fetching notes", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error fetching notes"))
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		// An unparseable id can never match an owned row.
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgNoteNotFound))
		return
	}
	userID := c.GetInt("userId")
	note, err := h.repo.GetNoteByID(userID, id)
	if err != nil {
		slog.Error("fetching note", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error fetching note"))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgNoteNotFound))
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgTitleContentRequired))
		return
	}
	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgTitleContentRequired))
		return
	}

	userID := c.GetInt("userId")
	note, err := h.repo.CreateNote(userID, req.Title, req.Content)
	if err != nil {
		slog.Error("creating note", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error creating note"))
		return
	}
	h.notifyChanged(userID, events.TypeNoteCreated, note.ID)
	c.JSON(http.StatusCreated, note)
}

func (h *NotesHandler) UpdateNote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgNoteNotFound))
		return
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgTitleContentRequired))
		return
	}
	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, types.NewMessageResponse(types.MsgTitleContentRequired))
		return
	}

	userID := c.GetInt("userId")
	note, err := h.repo.UpdateNote(userID, id, req.Title, req.Content)
	if err != nil {
		slog.Error("updating note", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error updating note"))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgNoteNotFound))
		return
	}
	h.notifyChanged(userID, events.TypeNoteUpdated, note.ID)
	c.JSON(http.StatusOK, note)
}

func (h *NotesHandler) DeleteNote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgNoteNotFound))
		return
	}
	userID := c.GetInt("userId")
	deleted, err := h.repo.DeleteNote(userID, id)
	if err != nil {
		slog.Error("deleting note", "err", err, "userId", userID)
		c.JSON(http.StatusInternalServerError, types.NewMessageResponse("Error deleting note"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewMessageResponse(types.MsgNoteNotFound))
		return
	}
	h.notifyChanged(userID, events.TypeNoteDeleted, id)
	c.JSON(http.StatusOK, types.NewMessageResponse(types.MsgNoteDeleted))
}
