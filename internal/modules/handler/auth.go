package handler

import (
	"errors"
	"net/http"

	"github.com/archfolio/archfolio/internal/modules/serializer"
	"github.com/archfolio/archfolio/internal/modules/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type LoginReq struct {
	Password string `json:"password" binding:"required"`
}

type LoginResp struct {
	Token string `json:"token"`
}

// Login godoc
//
//	@Summary	Admin login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body	LoginReq	true	"Admin password"
//	@Success	200	{object}	serializer.Response{data=LoginResp}
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, serializer.AuthErr("invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.Err(http.StatusInternalServerError, "login failed", err))
		return
	}
	c.JSON(http.StatusOK, serializer.OK(LoginResp{Token: token}))
}
