package agent

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
)

const listAssignmentsKey = "agent.assignments.list"

type ListAssignmentsQuery struct {
	AgentID string
}

func (q ListAssignmentsQuery) Key() string { return listAssignmentsKey }

type ListAssignmentsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListAssignmentsHandler) Handle(ctx context.Context, q ListAssignmentsQuery) (dto.AgentAssignmentCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.AgentAssignmentCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	assignments, err := unit.Assignments().ListByAgent(execCtx, q.AgentID)
	if err != nil {
		return dto.AgentAssignmentCollection{}, err
	}
	items := make([]dto.AgentAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.Deleted {
			continue
		}
		items = append(items, dto.MapAgentAssignment(a))
	}
	return dto.AgentAssignmentCollection{Items: items}, nil
}

var _ queries.Handler[ListAssignmentsQuery, dto.AgentAssignmentCollection] = (*ListAssignmentsHandler)(nil)
