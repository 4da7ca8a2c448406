package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

func (s *E2ETestSuite) Test31_NoteEventsOverWebsocket() {
	wsURL := strings.Replace(s.baseURL, "http", "ws", 1) + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + s.otherToken}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	s.Require().NoError(err)
	defer conn.Close()

	// Give the hub a moment to register the client before triggering events
	time.Sleep(100 * time.Millisecond)

	resp := s.do("POST", "/api/notes", s.otherToken, map[string]string{
		"title":   "Kept until account deletion",
		"content": "should vanish with the account",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)
	var note map[string]interface{}
	s.NoError(decodeJSON(resp, &note))
	s.otherNoteID = int(note["id"].(float64))

	s.NoError(conn.SetReadDeadline(time.Now().Add(3 * time.Second)))
	_, payload, err := conn.ReadMessage()
	s.Require().NoError(err)

	var event struct {
		Type   string `json:"type"`
		NoteID int    `json:"noteId"`
	}
	s.NoError(json.Unmarshal(payload, &event))
	s.Equal("note.created", event.Type)
	s.Equal(s.otherNoteID, event.NoteID)
}
