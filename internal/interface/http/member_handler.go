package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/minsuk-ha/go-shop-ddd/internal/application"
	"github.com/minsuk-ha/go-shop-ddd/pkg/helpers"
	"github.com/minsuk-ha/go-shop-ddd/pkg/response"
	"github.com/minsuk-ha/go-shop-ddd/pkg/validation"
)

type MemberHandler struct {
	Svc     *application.MemberService
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewMemberHandler(svc *application.MemberService, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *MemberHandler {
	return &MemberHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type joinRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	AddressLine   string `json:"address_line"`
	AddressDetail string `json:"address_detail"`
	PostalCode    int    `json:"postal_code"`
}

type adminJoinRequest struct {
	joinRequest
	Role string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateMemberRequest struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	AddressLine   string `json:"address_line"`
	AddressDetail string `json:"address_detail"`
	PostalCode    int    `json:"postal_code"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

// Join registers a regular member. Presence and length rules are enforced by
// the service so the same failures surface identically on every transport.
func (h *MemberHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	res, err := h.Svc.Join(c.Request.Context(), application.JoinInput{
		Email:         req.Email,
		Password:      req.Password,
		Username:      req.Username,
		Name:          req.Name,
		AddressLine:   req.AddressLine,
		AddressDetail: req.AddressDetail,
		PostalCode:    req.PostalCode,
		Role:          "USER",
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, res, "member joined", nil)
	c.JSON(resp.Status, resp)
}

// AdminJoin registers a member with an explicit role. Admin only.
func (h *MemberHandler) AdminJoin(c *gin.Context) {
	var req adminJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	res, err := h.Svc.Join(c.Request.Context(), application.JoinInput{
		Email:         req.Email,
		Password:      req.Password,
		Username:      req.Username,
		Name:          req.Name,
		AddressLine:   req.AddressLine,
		AddressDetail: req.AddressDetail,
		PostalCode:    req.PostalCode,
		Role:          req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, res, "member joined", nil)
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	res, pair, err := h.Svc.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		resp := response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		c.JSON(resp.Status, resp)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	resp := response.Success(c, http.StatusOK, res, "signed in", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		resp := response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		c.JSON(resp.Status, resp)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		resp := response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		c.JSON(resp.Status, resp)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	resp := response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) SignOut(c *gin.Context) {
	h.Svc.SignOut(c.Request.Context(), c.GetString("memberID"))
	h.Cookies.Clear(c)
	resp := response.Success[any](c, http.StatusOK, map[string]any{"signed_out": true}, "signed out", nil)
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) Me(c *gin.Context) {
	m, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("memberID"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{
		"id":             m.ID,
		"username":       m.Username,
		"email":          m.Email,
		"name":           m.Name,
		"address_line":   m.Address.Line,
		"address_detail": m.Address.Detail,
		"postal_code":    m.Address.PostalCode,
		"role":           m.Role,
		"created_at":     m.CreatedAt,
		"updated_at":     m.UpdatedAt,
	}, "profile", nil)
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) Update(c *gin.Context) {
	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	m, err := h.Svc.UpdateMember(c.Request.Context(), c.GetString("memberID"), application.UpdateMemberInput{
		Email:         req.Email,
		Username:      req.Username,
		Name:          req.Name,
		AddressLine:   req.AddressLine,
		AddressDetail: req.AddressDetail,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{
		"id":       m.ID,
		"username": m.Username,
		"email":    m.Email,
		"name":     m.Name,
	}, "profile updated", nil)
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), c.GetString("memberID"), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"changed": true}, "password changed", nil)
	c.JSON(resp.Status, resp)
}

// Block locks a member out. Admin only; the member's session is dropped so
// the block is effective immediately.
func (h *MemberHandler) Block(c *gin.Context) {
	if err := h.Svc.BlockMember(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"blocked": true}, "member blocked", nil)
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) Unblock(c *gin.Context) {
	if err := h.Svc.UnblockMember(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"blocked": false}, "member unblocked", nil)
	c.JSON(resp.Status, resp)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteMember(c.Request.Context(), c.GetString("memberID")); err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.Clear(c)
	resp := response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "member deleted", nil)
	c.JSON(resp.Status, resp)
}
