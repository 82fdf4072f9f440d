package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type accountsFake map[int64]*models.User

func (f accountsFake) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "tutorhub.test",
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func protectedRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{m.JWTAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id, "role": c.GetString(ContextRole)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := newJWT(time.Hour)
	pair, err := jwt.GenerateTokenPair(5, "admin@tutorhub.test", "admin")
	require.NoError(t, err)
	expired, err := newJWT(-time.Minute).GenerateTokenPair(5, "admin@tutorhub.test", "admin")
	require.NoError(t, err)

	r := protectedRouter(NewAuthMiddleware(jwt, accountsFake{}))

	tests := []struct {
		name   string
		target string
		header string
		status int
		code   dto.ErrorCode
	}{
		{name: "missing", target: "/protected", status: http.StatusUnauthorized, code: dto.ErrorCodeUnauthorized},
		{name: "garbage", target: "/protected", header: "Bearer nope", status: http.StatusUnauthorized, code: dto.ErrorCodeInvalidToken},
		{name: "expired", target: "/protected", header: "Bearer " + expired.AccessToken, status: http.StatusUnauthorized, code: dto.ErrorCodeExpiredToken},
		{name: "bearer", target: "/protected", header: "Bearer " + pair.AccessToken, status: http.StatusOK},
		{name: "query token", target: "/protected?token=" + pair.AccessToken, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
				return
			}
			assert.JSONEq(t, `{"userId":5,"role":"admin"}`, w.Body.String())
		})
	}
}

func TestRoleRequired(t *testing.T) {
	jwt := newJWT(time.Hour)
	m := NewAuthMiddleware(jwt, accountsFake{})
	r := protectedRouter(m, m.RoleRequired(models.RoleAdmin))

	tutor, err := jwt.GenerateTokenPair(2, "t@tutorhub.test", "tutor")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tutor.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)
}

func TestActiveAccountRequired(t *testing.T) {
	jwt := newJWT(time.Hour)
	m := NewAuthMiddleware(jwt, accountsFake{
		1: {ID: 1, Role: models.RoleInstitution, IsActive: true},
		2: {ID: 2, Role: models.RoleInstitution, IsActive: false},
	})
	r := protectedRouter(m, m.ActiveAccountRequired())

	for id, status := range map[int64]int{1: http.StatusOK, 2: http.StatusForbidden, 3: http.StatusNotFound} {
		pair, err := jwt.GenerateTokenPair(id, "i@tutorhub.test", "institution")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, "user %d", id)
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("load: %w", apperrors.ErrUserNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewForbiddenError("not yours"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{apperrors.ErrSubmissionPending, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.NewConflictError("already verified"), http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.NewValidationError("status", "unknown status"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{apperrors.ErrDashboardUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}
}

func TestHandleAPIError_CustomMessageAndField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewValidationError("status", "unknown status 'archived'"))

	resp := decodeError(t, w)
	assert.Equal(t, "unknown status 'archived'", resp.Error.Message)
	assert.Equal(t, "status", resp.Error.Field)
}

func TestHandleAPIError_PartialApproval(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleAPIError(c, &apperrors.PartialApprovalError{
		Completed: []string{"submission"},
		Failed:    "institution_profile",
		Err:       apperrors.ErrResourceNotFound,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"completed":["submission"],"failed":"institution_profile"}`,
		string(mustMarshal(t, decodeError(t, w).Error.Details)))
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/status", func(c *gin.Context) {
		var req dto.UpdateStatusRequest
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decodeError(t, w).Error.Field)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(`{"status":"approved"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPathID(t *testing.T) {
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := PathID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for target, status := range map[string]int{"/items/12": 200, "/items/0": 400, "/items/abc": 400} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, status, w.Code, target)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", m.Handler())

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/items/%d", i+1), nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/:id", http.MethodGet, "204")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tutorhub_http_request_duration_seconds")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.tutorhub.test"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.tutorhub.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.tutorhub.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
