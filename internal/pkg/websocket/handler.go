package websocket

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/auth"
)

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// InstitutionResolver finds the institution an institution account manages
type InstitutionResolver interface {
	InstitutionFor(ctx context.Context, userID int64) (*models.InstitutionProfile, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub          *Hub
	tokens       TokenValidator
	institutions InstitutionResolver
	upgrader     websocket.Upgrader
	logger       zerolog.Logger
}

// NewHandler creates a new WebSocket handler. Handshakes are accepted from
// the same origins as the CORS middleware.
func NewHandler(hub *Hub, tokens TokenValidator, institutions InstitutionResolver, origins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:          hub,
		tokens:       tokens,
		institutions: institutions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to table change notifications
// @Description Upgrades to a WebSocket that receives {table,type,id} events for the requested tables.
// @Description Browsers cannot set headers on a WebSocket handshake, so the access token may be passed as ?token=.
// @Description Admins may watch any table. Institution accounts may watch courses, enrollments, inquiries, admissions and institution_faculty, and only receive events for their own institution.
// @Description The handshake Origin must be one of the configured CORS origins.
// @Tags realtime
// @Param tables query string true "Comma separated table names" example(courses,inquiries)
// @Param token query string false "Access token when no Authorization header is sent"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} dto.ErrorResponse "Unknown table"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} dto.ErrorResponse "Table not allowed for role or origin not allowed"
// @Router /realtime/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		raw, _ = auth.ExtractBearerToken(c.GetHeader("Authorization"))
	}
	claims, err := h.tokens.ValidateToken(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Missing or invalid access token")))
		return
	}

	tables := ParseTables(c.Query("tables"))
	if err := AuthorizeTables(claims.Role, tables); err != nil {
		status, code := http.StatusBadRequest, dto.ErrorCodeBadRequest
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			status, code = http.StatusForbidden, dto.ErrorCodeForbidden
		}
		c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, err.Error())))
		return
	}

	var institutionID int64
	if claims.Role == roleInstitution {
		inst, err := h.institutions.InstitutionFor(c.Request.Context(), claims.UserID)
		if err != nil {
			status, code := http.StatusInternalServerError, dto.ErrorCodeInternalServer
			if errors.Is(err, apperrors.ErrPermissionDenied) || errors.Is(err, apperrors.ErrAccountDisabled) {
				status, code = http.StatusForbidden, dto.ErrorCodeForbidden
			}
			h.logger.Warn().Err(err).Int64("userID", claims.UserID).Msg("Could not resolve institution for realtime subscriber")
			c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, "Institution could not be resolved")))
			return
		}
		institutionID = inst.ID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := newClient(h.hub, conn, conn.RemoteAddr().String(), claims.UserID, claims.Role, institutionID, tables, h.logger)
	if !enqueue(h.hub, h.hub.register, client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", claims.UserID).
		Strs("tables", tables).
		Str("remoteAddr", client.addr).
		Msg("WebSocket connection established")
}
