package handlers

import (
	"errors"
	"net/http"

	"axiapac.com/timesheets/core"
	web "axiapac.com/timesheets/web/common"
	"github.com/gin-gonic/gin"
)

type EmployeeEndpoint struct {
	base *Handler
}

func RegisterEmployees(r *gin.RouterGroup, h *Handler) {
	endpoint := &EmployeeEndpoint{base: h}
	r.GET("/employees", endpoint.List)
	r.POST("/employees", endpoint.Add)
	r.DELETE("/employees/:userName", endpoint.Delete)
	r.GET("/employees/administrator", endpoint.Administrator)
}

func (ep *EmployeeEndpoint) List(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	employees, err := core.ListEmployees(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	out := make([]EmployeeDTO, 0, len(employees))
	for i := range employees {
		out = append(out, NewEmployeeDTO(&employees[i]))
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(out, int64(len(out))))
}

type EmployeeAddDTO struct {
	EmpNumber int    `json:"empNumber"`
	UserName  string `json:"userName" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Role      string `json:"role"`
}

func (ep *EmployeeEndpoint) Add(c *gin.Context) {
	var params EmployeeAddDTO
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

	emp := core.Employee{
		EmpNumber: params.EmpNumber,
		UserName:  params.UserName,
		Name:      params.Name,
		Role:      params.Role,
	}
	if err := core.AddEmployee(db, &emp); err != nil {
		if errors.Is(err, core.ErrDuplicateUserName) || errors.Is(err, core.ErrDuplicateEmpNumber) {
			c.JSON(http.StatusConflict, web.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewEmployeeDTO(&emp)))
}

func (ep *EmployeeEndpoint) Delete(c *gin.Context) {
	userName := c.Param("userName")

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	emp, err := core.FindEmployeeByUserName(db, userName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Employee not found"))
		return
	}

	// The directory itself refuses to remove the seed administrator.
	if err := core.DeleteEmployee(db, emp); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

func (ep *EmployeeEndpoint) Administrator(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	admin, err := core.GetAdministrator(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	if admin == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("No administrator configured"))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewEmployeeDTO(admin)))
}
