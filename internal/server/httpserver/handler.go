package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ErrorResponse carries the message of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{User: res.User, AccessToken: res.AccessToken})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), models.Registration{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *HTTPServer) getUser(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) getProfile(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) updateProfile(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}

	updated, err := s.users.UpdateProfile(c.Request.Context(), c.GetString(userIDKey), user)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// writeError maps domain errors to HTTP statuses. Only validation details
// are passed to the client verbatim.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	code, msg := http.StatusInternalServerError, common.ErrorInternal.Error()
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrAuthenticationFailed):
		code, msg = http.StatusUnauthorized, common.ErrAuthenticationFailed.Error()
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrUnauthorized):
		code, msg = http.StatusForbidden, common.ErrUnauthorized.Error()
	case errors.Is(err, common.ErrorNotFound):
		code, msg = http.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrDuplicateUsername):
		code, msg = http.StatusConflict, common.ErrDuplicateUsername.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code, msg = http.StatusServiceUnavailable, err.Error()
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err)
	}
	c.JSON(code, ErrorResponse{Error: msg})
}
