package handler

import (
	"net/http"

	"koalgroup/internal/apierror"
	"koalgroup/internal/dto"
	"koalgroup/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Obtener par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 401 {object} apierror.APIError
// @Router /api/token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renovar el token de acceso
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.RefreshResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/token/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Token() == "" {
		c.JSON(http.StatusBadRequest, apierror.Field("refresh", "Este campo es requerido."))
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.Token())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Blacklist godoc
// @Summary Revocar un refresh token
// @Tags auth
// @Accept json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200
// @Failure 401 {object} apierror.APIError
// @Router /api/token/blacklist [post]
func (h *AuthHandler) Blacklist(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Token() == "" {
		c.JSON(http.StatusBadRequest, apierror.Field("refresh", "Este campo es requerido."))
		return
	}
	if err := h.svc.Blacklist(c.Request.Context(), req.Token()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Register godoc
// @Summary Registro publico de usuarios
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Datos del usuario"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} apierror.ValidationError
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
