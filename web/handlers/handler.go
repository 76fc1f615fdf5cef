package handlers

import (
	"database/sql"

	"axiapac.com/timesheets/core"
	"axiapac.com/timesheets/web/middlewares"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler carries the shared service state every endpoint needs.
type Handler struct {
	Dm       *core.DatabaseManager
	Sessions *SessionState
	Secret   []byte
}

func (h *Handler) GetDB(c *gin.Context) (*gorm.DB, *sql.Conn, error) {
	return h.Dm.GetDB(c.Request.Context())
}

// CurrentEmployee resolves the authenticated employee for this request from
// the token claims. Nil when the token subject no longer exists.
func (h *Handler) CurrentEmployee(c *gin.Context, db *gorm.DB) *core.Employee {
	claims := middlewares.Identity(c)
	if claims == nil {
		return nil
	}
	emp, err := core.FindEmployeeByUserName(db, claims.UserName)
	if err != nil {
		return nil
	}
	return emp
}

// Caller builds the core-facing caller context for the request's employee.
func (h *Handler) Caller(emp *core.Employee) core.CallerContext {
	return &callerContext{employee: emp, sessions: h.Sessions}
}

type callerContext struct {
	employee *core.Employee
	sessions *SessionState
}

func (cc *callerContext) Employee() *core.Employee {
	return cc.employee
}

func (cc *callerContext) SelectedTimesheetID() uint {
	if cc.employee == nil {
		return 0
	}
	return cc.sessions.SelectedTimesheet(cc.employee.EmployeeId)
}

func (cc *callerContext) SetSelectedTimesheetID(id uint) {
	if cc.employee == nil {
		return
	}
	cc.sessions.SetSelectedTimesheet(cc.employee.EmployeeId, id)
}
