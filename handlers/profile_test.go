package handlers

import "net/http"

func (s *E2ETestSuite) Test40_GetProfile() {
	resp := s.do("GET", "/api/profile", s.ownerToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var profile map[string]interface{}
	s.NoError(decodeJSON(resp, &profile))
	s.Equal(s.ownerName, profile["username"])
	s.Equal(s.ownerEmail, profile["email"])
	// One note remains after the delete scenario
	s.Equal(float64(1), profile["notesCount"])
	s.Nil(profile["password"])
}

func (s *E2ETestSuite) Test41_UpdateProfileValidation() {
	resp := s.do("PUT", "/api/profile", s.ownerToken, map[string]string{
		"username": "",
		"email":    "",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test42_UpdateProfileConflict() {
	resp := s.do("PUT", "/api/profile", s.ownerToken, map[string]string{
		"username": s.ownerName,
		"email":    s.otherEmail,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	s.NoError(decodeJSON(resp, &body))
	s.Equal("Username or email already exists", body["message"])

	// Nothing changed
	resp = s.do("GET", "/api/profile", s.ownerToken, nil)
	var profile map[string]interface{}
	s.NoError(decodeJSON(resp, &profile))
	s.Equal(s.ownerEmail, profile["email"])
}

func (s *E2ETestSuite) Test43_UpdateProfile() {
	s.updatedProfile = s.ownerName + "2"
	resp := s.do("PUT", "/api/profile", s.ownerToken, map[string]string{
		"username": s.updatedProfile,
		"email":    s.updatedProfile + "@example.com",
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var profile map[string]interface{}
	s.NoError(decodeJSON(resp, &profile))
	s.Equal(s.updatedProfile, profile["username"])
	// The update response carries no derived count; only GET /api/profile does
	_, hasCount := profile["notesCount"]
	s.False(hasCount)
	s.ownerName = s.updatedProfile
	s.ownerEmail = s.updatedProfile + "@example.com"
}

func (s *E2ETestSuite) Test44_ChangePasswordValidation() {
	resp := s.do("PUT", "/api/profile/password", s.ownerToken, map[string]string{
		"currentPassword": s.ownerPassword,
		"newPassword":     "short",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("PUT", "/api/profile/password", s.ownerToken, map[string]string{
		"newPassword": "longenough",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test45_ChangePasswordWrongCurrent() {
	resp := s.do("PUT", "/api/profile/password", s.ownerToken, map[string]string{
		"currentPassword": "not-the-password",
		"newPassword":     "newpassword",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	s.NoError(decodeJSON(resp, &body))
	s.Equal("Current password is incorrect", body["message"])

	// The stored hash is untouched: the old password still logs in
	resp = s.do("POST", "/api/auth/login", "", map[string]string{
		"username": s.ownerName,
		"password": s.ownerPassword,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test46_ChangePassword() {
	resp := s.do("PUT", "/api/profile/password", s.ownerToken, map[string]string{
		"currentPassword": s.ownerPassword,
		"newPassword":     "brandnewpass",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.ownerPassword = "brandnewpass"

	resp = s.do("POST", "/api/auth/login", "", map[string]string{
		"username": s.ownerName,
		"password": s.ownerPassword,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) Test47_DeleteAccountWrongPassword() {
	resp := s.do("DELETE", "/api/profile", s.otherToken, map[string]string{
		"password": "not-otherpass",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("DELETE", "/api/profile", s.otherToken, map[string]string{})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test48_DeleteAccount() {
	// The account still owns the note created in the websocket scenario
	resp := s.do("GET", "/api/notes", s.otherToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var notes []map[string]interface{}
	s.NoError(decodeJSON(resp, &notes))
	s.Len(notes, 1)
	s.Equal(float64(s.otherNoteID), notes[0]["id"])

	resp = s.do("DELETE", "/api/profile", s.otherToken, map[string]string{
		"password": "otherpass",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]string
	s.NoError(decodeJSON(resp, &body))
	s.Equal("Account deleted successfully", body["message"])

	// The token still parses but the user row is gone
	resp = s.do("GET", "/api/profile", s.otherToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)

	// The cascade removed the owned note along with the user row
	resp = s.do("GET", "/api/notes", s.otherToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NoError(decodeJSON(resp, &notes))
	s.Len(notes, 0)

	// And the credentials no longer log in
	resp = s.do("POST", "/api/auth/login", "", map[string]string{
		"username": s.otherName,
		"password": "otherpass",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
