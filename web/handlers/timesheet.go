package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"axiapac.com/timesheets/core"
	"axiapac.com/timesheets/utils"
	web "axiapac.com/timesheets/web/common"
	"github.com/gin-gonic/gin"
)

type TimesheetEndpoint struct {
	base  *Handler
	edits *EditRegistry
}

func RegisterTimesheets(r *gin.RouterGroup, h *Handler) {
	endpoint := &TimesheetEndpoint{
		base:  h,
		edits: NewEditRegistry(EditConversationTTL),
	}
	r.GET("/timesheets", endpoint.List)
	r.GET("/timesheets/current", endpoint.Current)
	r.GET("/timesheets/:id", endpoint.Get)
	r.POST("/timesheets", endpoint.Create)
	r.GET("/timesheets/:id/export", endpoint.Export)

	r.POST("/timesheets/edit", endpoint.EditInit)
	r.POST("/timesheets/edit/:editId/rows", endpoint.EditAddRow)
	r.PUT("/timesheets/edit/:editId", endpoint.EditSave)
}

func (ep *TimesheetEndpoint) List(c *gin.Context) {
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

	sheets, err := core.FindTimesheetsByEmployee(db, emp.EmployeeId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	out := make([]TimesheetDTO, 0, len(sheets))
	for i := range sheets {
		out = append(out, NewTimesheetDTO(&sheets[i]))
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(out, int64(len(out))))
}

func (ep *TimesheetEndpoint) Current(c *gin.Context) {
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

	ts, err := core.CurrentTimesheetForEmployee(db, emp.EmployeeId, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	if ts == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("No timesheet yet"))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewTimesheetDTO(ts)))
}

func (ep *TimesheetEndpoint) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	ts, err := core.FindTimesheetByID(db, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	if ts == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Timesheet not found"))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewTimesheetDTO(ts)))
}

type TimesheetCreateDTO struct {
	EndDate *web.DateOnly `json:"endDate"`
}

func (ep *TimesheetEndpoint) Create(c *gin.Context) {
	var params TimesheetCreateDTO
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

	endDate := utils.WeekEnding(time.Now())
	if params.EndDate != nil && !params.EndDate.IsZero() {
		endDate = utils.WeekEnding(params.EndDate.Time)
	}

	ts, err := core.CreateTimesheet(db, emp.EmployeeId, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	ep.base.Sessions.SetSelectedTimesheet(emp.EmployeeId, ts.TimesheetId)
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewTimesheetDTO(ts)))
}

func (ep *TimesheetEndpoint) Export(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid id"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	ts, err := core.FindTimesheetByID(db, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	if ts == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Timesheet not found"))
		return
	}

	owner, err := core.FindEmployeeByID(db, ts.EmployeeId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	f, err := core.ExportTimesheetXlsx(ts, owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	filename := fmt.Sprintf("timesheet-%d-%s.xlsx", ts.TimesheetId, ts.EndDate.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
	}
}

type EditInitDTO struct {
	TimesheetID uint `json:"timesheetId"`
}

func (ep *TimesheetEndpoint) EditInit(c *gin.Context) {
	var params EditInitDTO
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

	entry := &editEntry{}
	session := core.NewEditSession(ep.base.Caller(emp), func(msg string) {
		entry.messages = append(entry.messages, msg)
	})
	if err := session.Init(db, params.TimesheetID); err != nil {
		if errors.Is(err, core.ErrTimesheetNotFound) {
			c.JSON(http.StatusNotFound, web.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	editID := ep.edits.Begin(emp.EmployeeId, session, entry)
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewEditGridDTO(editID, session)))
}

func (ep *TimesheetEndpoint) EditAddRow(c *gin.Context) {
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

	editID := c.Param("editId")
	entry := ep.edits.Get(editID, emp.EmployeeId)
	if entry == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Edit session expired"))
		return
	}

	entry.session.AddRow()
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewEditGridDTO(editID, entry.session)))
}

type EditSaveDTO struct {
	HoursGrid [][]string `json:"hoursGrid" binding:"required"`
	NotesGrid []string   `json:"notesGrid" binding:"required"`
}

func (ep *TimesheetEndpoint) EditSave(c *gin.Context) {
	var params EditSaveDTO
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

	editID := c.Param("editId")
	entry := ep.edits.Get(editID, emp.EmployeeId)
	if entry == nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Edit session expired"))
		return
	}

	session := entry.session
	if !session.Editable() {
		c.JSON(http.StatusForbidden, web.NewErrorResponse("Timesheet week is closed"))
		return
	}
	if len(params.HoursGrid) != len(session.HoursGrid) || len(params.NotesGrid) != len(session.NotesGrid) {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Grid shape does not match the edit session"))
		return
	}

	session.HoursGrid = params.HoursGrid
	session.NotesGrid = params.NotesGrid

	if err := session.Save(db); err != nil {
		if errors.Is(err, core.ErrValidationFailed) {
			c.JSON(http.StatusUnprocessableEntity, web.NewValidationErrorResponse(entry.takeMessages()))
			return
		}
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	ep.edits.End(editID)
	c.JSON(http.StatusOK, web.NewSuccessResponse(NewTimesheetDTO(session.Sheet())))
}
