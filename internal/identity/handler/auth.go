package handler

import (
	"net/http"

	"carrental/internal/identity/service"
	"carrental/pkg/auth"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	service service.IdentityService
	log     *logger.Logger
}

func NewAuthHandler(service service.IdentityService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// Signup is public. A bearer token, when present, is used to allow admins to
// create admin and driver accounts.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SignupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	user, err := h.service.Signup(r.Context(), &req, auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Signup", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signup", h.Signup)
	router.POST("/api/v1/auth/login", h.Login)
}
