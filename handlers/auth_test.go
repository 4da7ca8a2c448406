package handlers

import "net/http"

func (s *E2ETestSuite) Test01_RegisterOwner() {
	resp := s.do("POST", "/api/auth/register", "", map[string]string{
		"username": s.ownerName,
		"email":    s.ownerEmail,
		"password": s.ownerPassword,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *E2ETestSuite) Test02_RegisterOwnerConflict() {
	resp := s.do("POST", "/api/auth/register", "", map[string]string{
		"username": s.ownerName,
		"email":    s.ownerEmail,
		"password": s.ownerPassword,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *E2ETestSuite) Test03_RegisterValidation() {
	resp := s.do("POST", "/api/auth/register", "", map[string]string{
		"username": "ab",
		"email":    "ab@example.com",
		"password": "password",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do("POST", "/api/auth/register", "", map[string]string{
		"username": "validname",
		"email":    "not-an-email",
		"password": "password",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test04_LoginInvalidPassword() {
	resp := s.do("POST", "/api/auth/login", "", map[string]string{
		"username": s.ownerName,
		"password": "wrongpass",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2ETestSuite) Test05_LoginOwner() {
	resp := s.do("POST", "/api/auth/login", "", map[string]string{
		"username": s.ownerName,
		"password": s.ownerPassword,
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var data map[string]string
	s.NoError(decodeJSON(resp, &data))
	s.ownerToken = data["token"]
	s.NotEmpty(s.ownerToken)
}

func (s *E2ETestSuite) Test06_RegisterAndLoginOther() {
	resp := s.do("POST", "/api/auth/register", "", map[string]string{
		"username": s.otherName,
		"email":    s.otherEmail,
		"password": "otherpass",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp = s.do("POST", "/api/auth/login", "", map[string]string{
		"username": s.otherName,
		"password": "otherpass",
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var data map[string]string
	s.NoError(decodeJSON(resp, &data))
	s.otherToken = data["token"]
	s.NotEmpty(s.otherToken)
}

func (s *E2ETestSuite) Test07_ProtectedRoutesRequireToken() {
	resp := s.do("GET", "/api/notes", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.do("GET", "/api/profile", "garbage-token", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
