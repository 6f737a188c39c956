package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/models"
	"github.com/dmitrijs2005/profilekeeper/internal/netx"
)

// HTTPSource talks to the backend JSON API.
type HTTPSource struct {
	tokenHolder
	baseURL string
	client  *http.Client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewHTTPSource creates a client for baseURL, e.g. "http://127.0.0.1:8080".
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) do(ctx context.Context, method, path string, in, out any) error {
	header := http.Header{}
	if token := s.AccessToken(); token != "" {
		header.Set("Authorization", common.BearerPrefix+token)
	}
	err := netx.DoJSON(ctx, s.client, method, s.baseURL+path, header, in, out)
	return s.mapError(ctx, err)
}

// FindByCredentials logs in and keeps the issued access token.
func (s *HTTPSource) FindByCredentials(ctx context.Context, username, password string) (models.User, error) {
	var resp loginResponse
	if err := s.do(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return models.User{}, err
	}
	s.SetAccessToken(resp.AccessToken)
	return resp.User, nil
}

func (s *HTTPSource) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := s.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Profile returns the user the current access token belongs to.
func (s *HTTPSource) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	if err := s.do(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *HTTPSource) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	var user models.User
	req := registerRequest{
		Username:  reg.Username,
		Password:  reg.Password,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}
	if err := s.do(ctx, http.MethodPost, "/api/users", req, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *HTTPSource) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	var updated models.User
	if err := s.do(ctx, http.MethodPut, "/api/users/profile", user, &updated); err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func (s *HTTPSource) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/ping", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (s *HTTPSource) mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	switch se.Code {
	case http.StatusBadRequest:
		return invalidInput(se.Message)
	case http.StatusUnauthorized:
		if se.Message == common.ErrAuthenticationFailed.Error() {
			return common.ErrAuthenticationFailed
		}
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrDuplicateUsername
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
}
