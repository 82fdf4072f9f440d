package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/middleware"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

// asUser stands in for JWTAuth
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

type authFake struct {
	loginErr  error
	loggedOut []string
	role      string
}

func (f *authFake) respond(role models.Role, email string) *dto.AuthResponse {
	f.role = string(role)
	return &dto.AuthResponse{
		Token: dto.TokenResponse{AccessToken: "access", TokenType: "Bearer"},
		User:  dto.UserResponse{ID: 1, Email: email, Role: string(role)},
	}
}

func (f *authFake) RegisterStudent(_ context.Context, req *dto.RegisterStudentRequest) (*dto.AuthResponse, error) {
	return f.respond(models.RoleStudent, req.Email), nil
}

func (f *authFake) RegisterTutor(_ context.Context, req *dto.RegisterTutorRequest) (*dto.AuthResponse, error) {
	return f.respond(models.RoleTutor, req.Email), nil
}

func (f *authFake) RegisterInstitution(_ context.Context, req *dto.RegisterInstitutionRequest) (*dto.AuthResponse, error) {
	if req.Email == "taken@tutorhub.test" {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	return f.respond(models.RoleInstitution, req.Email), nil
}

func (f *authFake) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.respond(models.RoleStudent, req.Email), nil
}

func (f *authFake) RefreshToken(_ context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken != "good" {
		return nil, apperrors.ErrTokenInvalid
	}
	return &dto.TokenResponse{AccessToken: "fresh", TokenType: "Bearer"}, nil
}

func (f *authFake) Logout(_ context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *authFake) Me(_ context.Context, userID int64) (*dto.UserResponse, error) {
	if userID != 1 {
		return nil, apperrors.ErrUserNotFound
	}
	return &dto.UserResponse{ID: 1, Email: "me@tutorhub.test", Role: "student"}, nil
}

func authRouter(f *authFake) *gin.Engine {
	c := NewAuthController(f, zerolog.Nop())
	r := gin.New()
	r.POST("/auth/register/:role", c.Register)
	r.POST("/auth/login", c.Login)
	r.POST("/auth/refresh", c.RefreshToken)
	r.POST("/auth/logout", c.Logout)
	r.GET("/auth/me", asUser(1), c.Me)
	r.GET("/auth/anonymous-me", c.Me)
	return r
}

func account(email string) dto.AccountFields {
	return dto.AccountFields{FullName: "Ada Lovelace", Email: email, Password: "engine1843"}
}

func TestRegister(t *testing.T) {
	f := &authFake{}
	r := authRouter(f)

	t.Run("student", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/auth/register/student", dto.RegisterStudentRequest{AccountFields: account("ada@tutorhub.test")})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp dto.AuthResponse
		decodeData(t, w, &resp)
		assert.Equal(t, "student", resp.User.Role)
		assert.Equal(t, "ada@tutorhub.test", resp.User.Email)
	})

	t.Run("tutor needs subjects", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/auth/register/tutor", dto.RegisterTutorRequest{AccountFields: account("tutor@tutorhub.test")})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeValidationFailed, errorOf(t, w).Code)
	})

	t.Run("weak password", func(t *testing.T) {
		fields := account("weak@tutorhub.test")
		fields.Password = "password"
		w := doJSON(r, http.MethodPost, "/auth/register/student", dto.RegisterStudentRequest{AccountFields: fields})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password", errorOf(t, w).Field)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := dto.RegisterInstitutionRequest{AccountFields: account("taken@tutorhub.test"), InstitutionName: "North Academy"}
		w := doJSON(r, http.MethodPost, "/auth/register/institution", req)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, errorOf(t, w).Code)
	})

	t.Run("admin cannot self register", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/auth/register/admin", dto.RegisterStudentRequest{AccountFields: account("root@tutorhub.test")})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeInvalidRole, errorOf(t, w).Code)
	})
}

func TestLogin(t *testing.T) {
	f := &authFake{}
	r := authRouter(f)

	w := doJSON(r, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ada@tutorhub.test", Password: "engine1843"})
	assert.Equal(t, http.StatusOK, w.Code)

	f.loginErr = apperrors.ErrInvalidCredentials
	w = doJSON(r, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ada@tutorhub.test", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, errorOf(t, w).Code)

	f.loginErr = apperrors.ErrAccountDisabled
	w = doJSON(r, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "ada@tutorhub.test", Password: "engine1843"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	f := &authFake{}
	r := authRouter(f)

	w := doJSON(r, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "good"})
	require.Equal(t, http.StatusOK, w.Code)
	var tok dto.TokenResponse
	decodeData(t, w, &tok)
	assert.Equal(t, "fresh", tok.AccessToken)

	w = doJSON(r, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "stale"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/logout", dto.LogoutRequest{RefreshToken: "good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"good"}, f.loggedOut)
}

func TestMe(t *testing.T) {
	r := authRouter(&authFake{})

	w := doJSON(r, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.UserResponse
	decodeData(t, w, &me)
	assert.Equal(t, int64(1), me.ID)

	w = doJSON(r, http.MethodGet, "/auth/anonymous-me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, errorOf(t, w).Code)
}

type homeFake struct{}

func (homeFake) Home(context.Context) *dto.HomeResponse {
	return &dto.HomeResponse{Stats: dto.PublicStats{VerifiedTutors: 12}}
}

func (homeFake) SignupOptions() []dto.SignupOption {
	return []dto.SignupOption{{Role: "student"}, {Role: "tutor"}, {Role: "institution"}}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHomeController(t *testing.T) {
	healthy := true
	c := NewHomeController(homeFake{}, pingFunc(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("connection refused")
	}), zerolog.Nop())

	r := gin.New()
	r.GET("/home", c.Home)
	r.GET("/signup/options", c.SignupOptions)
	r.GET("/health", c.Health)

	w := doJSON(r, http.MethodGet, "/home", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var home dto.HomeResponse
	decodeData(t, w, &home)
	assert.Equal(t, int64(12), home.Stats.VerifiedTutors)

	w = doJSON(r, http.MethodGet, "/signup/options", nil)
	var options []dto.SignupOption
	decodeData(t, w, &options)
	assert.Len(t, options, 3)

	w = doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	healthy = false
	w = doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrorCodeServiceUnavailable, errorOf(t, w).Code)
}
