package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	reportsapp "fleetrent/internal/app/handlers/reports"
	"fleetrent/internal/app/queries"
)

type ReportHTTP interface {
	File(c *gin.Context)
	Resolve(c *gin.Context)
	List(c *gin.Context)
}

type ReportHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type fileReportRequest struct {
	Type string `json:"report_type"`
	Text string `json:"report_text"`
}

func (h ReportHandler) File(c *gin.Context) {
	p, ok := requireRole(c, roleCustomer)
	if !ok {
		return
	}
	var req fileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := reportsapp.FileReportCommand{
		CarID:      c.Param("id"),
		ReporterID: p.ID,
		Type:       req.Type,
		Text:       req.Text,
	}
	result, err := commands.Dispatch[reportsapp.FileReportCommand, dto.Report](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "car issue reported", result)
}

func (h ReportHandler) Resolve(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	cmd := reportsapp.ResolveReportCommand{ReportID: c.Param("id")}
	result, err := commands.Dispatch[reportsapp.ResolveReportCommand, dto.Report](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h ReportHandler) List(c *gin.Context) {
	p, ok := requireRole(c)
	if !ok {
		return
	}
	q := reportsapp.ListReportsQuery{ReporterID: p.ID}
	result, err := queries.Ask[reportsapp.ListReportsQuery, dto.ReportCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ ReportHTTP = ReportHandler{}
