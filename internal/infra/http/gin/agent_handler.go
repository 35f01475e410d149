package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	agentapp "fleetrent/internal/app/handlers/agent"
	"fleetrent/internal/app/queries"
)

type AgentHTTP interface {
	Assign(c *gin.Context)
	ListAssignments(c *gin.Context)
}

type AgentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type assignAgentRequest struct {
	AgentID string `json:"agent_id"`
}

func (h AgentHandler) Assign(c *gin.Context) {
	if _, ok := requireRole(c, roleStaff, roleAdmin); !ok {
		return
	}
	var req assignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFailed, "message": err.Error()})
		return
	}
	cmd := agentapp.AssignAgentCommand{
		BookingNumber: c.Param("number"),
		AgentID:       req.AgentID,
	}
	result, err := commands.Dispatch[agentapp.AssignAgentCommand, *agentapp.AssignAgentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

// ListAssignments returns the caller's own workload; staff and admins
// may ask for any agent via ?agent_id=.
func (h AgentHandler) ListAssignments(c *gin.Context) {
	p, ok := requireRole(c, roleAgent, roleStaff, roleAdmin)
	if !ok {
		return
	}
	agentID := p.ID
	if p.hasRole(roleStaff, roleAdmin) {
		if v := c.Query("agent_id"); v != "" {
			agentID = v
		}
	}
	q := agentapp.ListAssignmentsQuery{AgentID: agentID}
	result, err := queries.Ask[agentapp.ListAssignmentsQuery, dto.AgentAssignmentCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

var _ AgentHTTP = AgentHandler{}
