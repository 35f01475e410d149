package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/uow"
	domainagent "fleetrent/internal/domain/agent"
	domainuser "fleetrent/internal/domain/user"
)

const assignAgentKey = "agent.assign"

var (
	ErrUnitOfWorkRequired = errors.New("agent: unit of work required")
	ErrNotAnAgent         = errors.New("agent: user is not a delivery agent")
	ErrWrongCompany       = errors.New("agent: agent belongs to another company")
)

type AssignAgentCommand struct {
	BookingNumber string
	AgentID       string
}

func (c AssignAgentCommand) Key() string { return assignAgentKey }

type AssignAgentResult struct {
	AssignmentID  string `json:"assignment_id"`
	BookingNumber string `json:"booking_number"`
	AgentID       string `json:"agent_id"`
}

type AssignAgentHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *AssignAgentHandler) Handle(ctx context.Context, cmd AssignAgentCommand) (*AssignAgentResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	booking, err := unit.Bookings().ByNumber(ctx, cmd.BookingNumber)
	if err != nil {
		return nil, err
	}
	agentUser, err := unit.Users().ByID(ctx, domainuser.ID(cmd.AgentID))
	if err != nil {
		return nil, err
	}
	if agentUser.Role != domainuser.RoleAgent {
		return nil, ErrNotAnAgent
	}
	if agentUser.CompanyID != booking.CompanyID {
		return nil, ErrWrongCompany
	}

	// Re-assignment replaces the agent on the existing assignment row.
	existing, err := unit.Assignments().ByBookingNumber(ctx, booking.Number)
	if err == nil {
		existing.AgentID = cmd.AgentID
		existing.UpdatedAt = now
		if err := unit.Assignments().Save(ctx, existing); err != nil {
			return nil, err
		}
		if managed {
			if err := unit.Commit(ctx); err != nil {
				return nil, err
			}
			committed = true
		}
		return &AssignAgentResult{AssignmentID: existing.ID, BookingNumber: booking.Number, AgentID: cmd.AgentID}, nil
	}
	if !errors.Is(err, domainagent.ErrAssignmentNotFound) {
		return nil, err
	}

	assignment, err := domainagent.New(domainagent.CreateParams{
		ID:            uuid.NewString(),
		BookingNumber: booking.Number,
		AgentID:       cmd.AgentID,
		CarID:         booking.CarID,
		CompanyID:     booking.CompanyID,
		AssignedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	assignment.TripStatus = booking.TripStatus
	if err := unit.Assignments().Save(ctx, assignment); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &AssignAgentResult{AssignmentID: assignment.ID, BookingNumber: booking.Number, AgentID: cmd.AgentID}, nil
}

var _ commands.Handler[AssignAgentCommand, *AssignAgentResult] = (*AssignAgentHandler)(nil)
