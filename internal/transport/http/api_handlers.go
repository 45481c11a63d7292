package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/core"
)

// APIHandlers provides HTTP handlers for REST API endpoints. Every read of
// world state happens on the world loop.
type APIHandlers struct {
	world       *core.World
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(world *core.World, authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		world:       world,
		authService: authService,
		log:         logger,
	}
}

// LoginRequest represents the staff login request body.
type LoginRequest struct {
	Operator string `json:"operator" binding:"required,max=32"`
	Role     string `json:"role" binding:"required,oneof=mod cm gm"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response body.
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AreaResponse represents an area in API responses.
type AreaResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
	Users  int    `json:"users"`
	Lock   string `json:"lock"`
	Lights bool   `json:"lights"`
}

// ClientResponse represents a connected client in staff API responses.
type ClientResponse struct {
	ID        int    `json:"id"`
	IPID      string `json:"ipid"`
	OOCName   string `json:"ooc_name"`
	Character string `json:"character"`
	Area      string `json:"area"`
	Showname  string `json:"showname,omitempty"`
	Visible   bool   `json:"visible"`
	Staff     bool   `json:"staff"`
}

// MutedResponse lists muted clients.
type MutedResponse struct {
	Muted    []ClientResponse `json:"muted"`
	OOCMuted []ClientResponse `json:"ooc_muted"`
}

// AnnounceRequest represents the announcement request body.
type AnnounceRequest struct {
	Message string `json:"message" binding:"required,max=1024"`
}

// AnnounceResponse reports how many clients received an announcement.
type AnnounceResponse struct {
	Recipients int `json:"recipients"`
}

// Login exchanges a staff credential for an API token.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Operator, req.Role, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrInvalidOperator) {
			h.log.Warn().Str("operator", req.Operator).Str("role", req.Role).Msg("staff login failed")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		h.log.Error().Err(err).Str("operator", req.Operator).Msg("failed to login operator")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("operator", req.Operator).Str("role", req.Role).Msg("operator logged in successfully")
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// ListAreas returns every area with its visible population.
// GET /api/areas
func (h *APIHandlers) ListAreas(c *gin.Context) {
	var response []AreaResponse
	if !h.onWorld(c, func() {
		areas := h.world.Areas().Areas()
		response = make([]AreaResponse, 0, len(areas))
		for _, a := range areas {
			users := 0
			for _, o := range a.Clients() {
				if o.Visible && o.CharID != core.CharUnselected {
					users++
				}
			}
			response = append(response, AreaResponse{
				ID:     a.ID,
				Name:   a.Name,
				Status: a.Status,
				Users:  users,
				Lock:   a.Lock.String(),
				Lights: a.Lights,
			})
		}
	}) {
		return
	}
	c.JSON(http.StatusOK, response)
}

// SearchClients resolves clients by identifier.
// GET /api/staff/clients?key=ipid&value=3
func (h *APIHandlers) SearchClients(c *gin.Context) {
	key, err := core.ParseTargetKey(c.DefaultQuery("key", core.TargetAll.String()))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	value := strings.TrimSpace(c.Query("value"))
	if value == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "value is required"})
		return
	}

	var response []ClientResponse
	if !h.onWorld(c, func() {
		response = clientResponses(h.world.ResolveTargets(nil, key, value, false))
	}) {
		return
	}

	h.log.Info().
		Str("operator", c.GetString(ContextKeyOperator)).
		Stringer("key", key).
		Int("matches", len(response)).
		Msg("staff client search")
	c.JSON(http.StatusOK, response)
}

// MutedClients lists clients muted in IC and OOC chat.
// GET /api/staff/muted
func (h *APIHandlers) MutedClients(c *gin.Context) {
	var response MutedResponse
	if !h.onWorld(c, func() {
		reg := h.world.Registry()
		response.Muted = clientResponses(reg.MutedClients())
		response.OOCMuted = clientResponses(reg.OOCMutedClients())
	}) {
		return
	}
	c.JSON(http.StatusOK, response)
}

// Announce sends a host message to every connected client.
// POST /api/staff/announce
func (h *APIHandlers) Announce(c *gin.Context) {
	var req AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid announce request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var sent int
	if !h.onWorld(c, func() {
		sent = h.world.BroadcastHost(core.Filter{}, "=== Announcement ===\r\n"+req.Message)
	}) {
		return
	}

	h.log.Info().Str("operator", c.GetString(ContextKeyOperator)).Int("recipients", sent).Msg("announcement sent")
	c.JSON(http.StatusOK, AnnounceResponse{Recipients: sent})
}

// onWorld runs fn on the world loop and answers 503 when it cannot.
func (h *APIHandlers) onWorld(c *gin.Context, fn func()) bool {
	if err := h.world.Do(c.Request.Context(), fn); err != nil {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("world unavailable")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "world unavailable"})
		return false
	}
	return true
}

func clientResponses(clients []*core.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, ClientResponse{
			ID:        cl.ID,
			IPID:      cl.IPID,
			OOCName:   cl.Name,
			Character: cl.CharName(),
			Area:      cl.Area.Name,
			Showname:  cl.Showname,
			Visible:   cl.Visible,
			Staff:     cl.IsStaff(),
		})
	}
	return out
}
