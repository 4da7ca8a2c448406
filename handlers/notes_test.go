package handlers

import (
	"net/http"
	"strconv"
)

func (s *E2ETestSuite) Test20_CreateNoteValidation() {
	resp := s.do("POST", "/api/notes", s.ownerToken, map[string]string{
		"title": "No content",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("POST", "/api/notes", s.ownerToken, map[string]string{
		"content": "No title",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test21_CreateNote() {
	resp := s.do("POST", "/api/notes", s.ownerToken, map[string]string{
		"title":   "A",
		"content": "hello world",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var note map[string]interface{}
	s.NoError(decodeJSON(resp, &note))
	s.createdNoteID = int(note["id"].(float64))
	s.True(s.createdNoteID > 0)
	s.Equal("A", note["title"])
	s.Equal("hello world", note["content"])
	s.noteCreatedAt = note["createdAt"].(string)
	s.noteUpdatedAt = note["updatedAt"].(string)
}

func (s *E2ETestSuite) Test22_GetCreatedNote() {
	resp := s.do("GET", "/api/notes/"+strconv.Itoa(s.createdNoteID), s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var note map[string]interface{}
	s.NoError(decodeJSON(resp, &note))
	s.Equal("A", note["title"])
	s.Equal("hello world", note["content"])
}

func (s *E2ETestSuite) Test23_ListNotesNewestFirst() {
	resp := s.do("POST", "/api/notes", s.ownerToken, map[string]string{
		"title":   "Second",
		"content": "groceries: milk, eggs",
	})
	var second map[string]interface{}
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.NoError(decodeJSON(resp, &second))
	s.secondNoteID = int(second["id"].(float64))

	resp = s.do("GET", "/api/notes", s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var notes []map[string]interface{}
	s.NoError(decodeJSON(resp, &notes))
	s.Len(notes, 2)
	s.Equal(float64(s.secondNoteID), notes[0]["id"])
	s.Equal(float64(s.createdNoteID), notes[1]["id"])
}

func (s *E2ETestSuite) Test24_SearchNotes() {
	resp := s.do("GET", "/api/notes?search=HELLO", s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var notes []map[string]interface{}
	s.NoError(decodeJSON(resp, &notes))
	s.Len(notes, 1)
	s.Equal(float64(s.createdNoteID), notes[0]["id"])

	resp = s.do("GET", "/api/notes?search=nomatch", s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NoError(decodeJSON(resp, &notes))
	s.Len(notes, 0)
}

func (s *E2ETestSuite) Test25_CrossUserAccessIsNotFound() {
	path := "/api/notes/" + strconv.Itoa(s.createdNoteID)

	resp := s.do("GET", path, s.otherToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do("PUT", path, s.otherToken, map[string]string{
		"title":   "hijack",
		"content": "hijack",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do("DELETE", path, s.otherToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	// The note is untouched for its owner
	resp = s.do("GET", path, s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var note map[string]interface{}
	s.NoError(decodeJSON(resp, &note))
	s.Equal("A", note["title"])
}

func (s *E2ETestSuite) Test26_UpdateNote() {
	resp := s.do("PUT", "/api/notes/"+strconv.Itoa(s.createdNoteID), s.ownerToken, map[string]string{
		"title":   "A2",
		"content": "hello",
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var note map[string]interface{}
	s.NoError(decodeJSON(resp, &note))
	s.Equal("A2", note["title"])
	s.Equal("hello", note["content"])
	s.Equal(s.noteCreatedAt, note["createdAt"])
	s.GreaterOrEqual(note["updatedAt"].(string), s.noteUpdatedAt)
}

func (s *E2ETestSuite) Test27_UpdateNoteValidation() {
	resp := s.do("PUT", "/api/notes/"+strconv.Itoa(s.createdNoteID), s.ownerToken, map[string]string{
		"title": "",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test28_UpdateMissingNote() {
	resp := s.do("PUT", "/api/notes/999999999", s.ownerToken, map[string]string{
		"title":   "x",
		"content": "y",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *E2ETestSuite) Test29_DeleteNote() {
	path := "/api/notes/" + strconv.Itoa(s.createdNoteID)

	resp := s.do("DELETE", path, s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]string
	s.NoError(decodeJSON(resp, &body))
	s.Equal("Note deleted successfully", body["message"])

	// Second delete and subsequent reads are 404
	resp = s.do("DELETE", path, s.ownerToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do("GET", path, s.ownerToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
