package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/directory"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
	"github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/services"
)

type ServerTestSuite struct {
	suite.Suite
	server *HTTPServer
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	users := services.NewUserService(directory.NewSeeded(), cfg, logging.Nop())
	s.server = NewHTTPServer("", logging.Nop(), users)
}

func (s *ServerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", common.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) login(username, password string) LoginResponse {
	w := s.do(http.MethodPost, "/api/login", "", LoginRequest{Username: username, Password: password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *ServerTestSuite) errorOf(w *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func (s *ServerTestSuite) TestPing() {
	w := s.do(http.MethodGet, "/api/ping", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"OK"}`, w.Body.String())
}

func (s *ServerTestSuite) TestLogin_Success() {
	resp := s.login("ivan", "password123")
	s.Equal("ivan", resp.User.Username)
	s.NotEmpty(resp.User.ID)
	s.NotEmpty(resp.AccessToken)
}

func (s *ServerTestSuite) TestLogin_Errors() {
	tests := []struct {
		name     string
		username string
		password string
		code     int
		message  string
	}{
		{"wrong password", "ivan", "password999", http.StatusUnauthorized, common.ErrAuthenticationFailed.Error()},
		{"unknown user", "ghost", "password123", http.StatusUnauthorized, common.ErrAuthenticationFailed.Error()},
		{"short username", "ab", "validpass1", http.StatusBadRequest, "invalid input: Username must be at least 3 characters long"},
		{"short password", "validuser", "short", http.StatusBadRequest, "invalid input: Password must be at least 6 characters long"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/login", "", LoginRequest{Username: tt.username, Password: tt.password})
			s.Equal(tt.code, w.Code)
			s.Equal(tt.message, s.errorOf(w))
		})
	}
}

func (s *ServerTestSuite) TestLogin_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestProfile() {
	resp := s.login("jane_smith", "password456")

	w := s.do(http.MethodGet, "/api/users/profile", resp.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var user models.User
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	s.Equal(resp.User, user)

	w = s.do(http.MethodGet, "/api/users/"+resp.User.ID, resp.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	s.Equal(resp.User, user)

	w = s.do(http.MethodGet, "/api/users/no-such-id", resp.AccessToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestProtectedRoutesRequireToken() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/users/profile", "", nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/users/profile", "garbage", nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPut, "/api/users/profile", "", models.User{}).Code)
}

func (s *ServerTestSuite) TestRegister() {
	reg := RegisterRequest{Username: "newbie", Password: "secret12", Email: "n@example.com", FirstName: "New"}

	w := s.do(http.MethodPost, "/api/users", "", reg)
	s.Require().Equal(http.StatusCreated, w.Code)
	var user models.User
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	s.Equal("newbie", user.Username)
	s.Equal("New", user.FirstName)

	w = s.do(http.MethodPost, "/api/users", "", reg)
	s.Equal(http.StatusConflict, w.Code)

	s.Equal(user.ID, s.login("newbie", "secret12").User.ID)
}

func (s *ServerTestSuite) TestUpdateProfile() {
	resp := s.login("ivan", "password123")
	user := resp.User
	user.Phone = "+1 000 000"

	w := s.do(http.MethodPut, "/api/users/profile", resp.AccessToken, user)
	s.Require().Equal(http.StatusOK, w.Code)
	var updated models.User
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	s.Equal("+1 000 000", updated.Phone)

	other := s.login("alex_wilson", "password789").User
	w = s.do(http.MethodPut, "/api/users/profile", resp.AccessToken, other)
	s.Equal(http.StatusForbidden, w.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestHTTPServer_Serve_StopsOnContextCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	s := NewHTTPServer("", logging.Nop(), services.NewUserService(directory.NewSeeded(), cfg, logging.Nop()))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/api/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestHTTPServer_Run_BadAddress(t *testing.T) {
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	s := NewHTTPServer("127.0.0.1:99999", logging.Nop(), services.NewUserService(directory.NewSeeded(), cfg, logging.Nop()))
	assert.Error(t, s.Run(context.Background()))
}
