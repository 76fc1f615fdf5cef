package handlers

import (
	"encoding/base64"
	"net/http"

	"axiapac.com/timesheets/core"
	"axiapac.com/timesheets/security"
	web "axiapac.com/timesheets/web/common"
	"github.com/gin-gonic/gin"
)

const tokenLifetimeSeconds = 8 * 3600

type AuthEndpoint struct {
	base *Handler
}

func RegisterAuth(public, protected *gin.RouterGroup, h *Handler) {
	endpoint := &AuthEndpoint{base: h}
	public.POST("/auth/login", endpoint.Login)
	protected.POST("/auth/password", endpoint.ChangePassword)
	protected.POST("/auth/logout", endpoint.Logout)
}

type LoginDTO struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ep *AuthEndpoint) Login(c *gin.Context) {
	var params LoginDTO
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	emp := core.Authenticate(db, params.UserName, params.Password)
	if emp == nil {
		// One answer for bad username and bad password.
		c.JSON(http.StatusUnauthorized, web.NewErrorResponse("invalid credentials"))
		return
	}

	token, err := security.CreateIdentityToken(&security.Identity{
		ID:        int(emp.EmployeeId),
		UserName:  emp.UserName,
		EmpNumber: emp.EmpNumber,
		Role:      emp.Role,
	}, base64.StdEncoding.EncodeToString(ep.base.Secret), tokenLifetimeSeconds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.SetCookie("timesheets.ApplicationCookie", token, tokenLifetimeSeconds, "/", "", false, true)
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{
		"token":    token,
		"employee": NewEmployeeDTO(emp),
	}))
}

type ChangePasswordDTO struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

func (ep *AuthEndpoint) ChangePassword(c *gin.Context) {
	var params ChangePasswordDTO
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	emp := ep.base.CurrentEmployee(c, db)
	if emp == nil {
		c.JSON(http.StatusUnauthorized, web.NewErrorResponse("not authenticated"))
		return
	}

	if err := core.ChangePassword(db, emp.UserName, params.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

func (ep *AuthEndpoint) Logout(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	if emp := ep.base.CurrentEmployee(c, db); emp != nil {
		ep.base.Sessions.ClearSelectedTimesheet(emp.EmployeeId)
	}
	c.SetCookie("timesheets.ApplicationCookie", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}
