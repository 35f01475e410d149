package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
	domainuser "fleetrent/internal/domain/user"
	"fleetrent/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func seedBooking(t *testing.T, factory memory.Factory, number string) {
	t.Helper()
	rng, err := daterange.FromDays(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:          domainbooking.ID(number),
		Number:      number,
		CarID:       "car-1",
		CompanyID:   "co-1",
		CustomerID:  "cust-1",
		Range:       rng,
		RentPerDay:  money.Must(2500, "AED"),
		TotalAmount: money.Must(7500, "AED"),
		CreatedAt:   fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.BookingRepo.Save(context.Background(), b))
}

func seedUser(t *testing.T, factory memory.Factory, id string, role domainuser.Role, companyID domaincar.CompanyID) {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Email:        id + "@fleetrent.test",
		Name:         "Test " + id,
		PasswordHash: "x",
		Role:         role,
		CompanyID:    companyID,
		CreatedAt:    fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.UserRepo.Save(context.Background(), u))
}

func TestAssignAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates assignment mirroring trip status", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1")
		seedUser(t, factory, "agent-1", domainuser.RoleAgent, "co-1")

		handler := &AssignAgentHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
		res, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-1", AgentID: "agent-1"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AssignmentID)
		assert.Equal(t, "agent-1", res.AgentID)

		stored, err := factory.AssignmentRepo.ByBookingNumber(ctx, "CR-1")
		require.NoError(t, err)
		assert.Equal(t, domainbooking.StatusUpcoming, stored.TripStatus)
		assert.Equal(t, domaincar.CompanyID("co-1"), stored.CompanyID)
	})

	t.Run("re-assignment swaps the agent in place", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1")
		seedUser(t, factory, "agent-1", domainuser.RoleAgent, "co-1")
		seedUser(t, factory, "agent-2", domainuser.RoleAgent, "co-1")

		handler := &AssignAgentHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
		first, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-1", AgentID: "agent-1"})
		require.NoError(t, err)
		second, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-1", AgentID: "agent-2"})
		require.NoError(t, err)
		assert.Equal(t, first.AssignmentID, second.AssignmentID)

		stored, err := factory.AssignmentRepo.ByBookingNumber(ctx, "CR-1")
		require.NoError(t, err)
		assert.Equal(t, "agent-2", stored.AgentID)
	})

	t.Run("rejects non-agent user", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1")
		seedUser(t, factory, "cust-9", domainuser.RoleCustomer, "")

		handler := &AssignAgentHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-1", AgentID: "cust-9"})
		assert.ErrorIs(t, err, ErrNotAnAgent)
	})

	t.Run("rejects agent from another company", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1")
		seedUser(t, factory, "agent-1", domainuser.RoleAgent, "co-2")

		handler := &AssignAgentHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-1", AgentID: "agent-1"})
		assert.ErrorIs(t, err, ErrWrongCompany)
	})

	t.Run("unknown booking", func(t *testing.T) {
		factory := memory.NewFactory()
		seedUser(t, factory, "agent-1", domainuser.RoleAgent, "co-1")

		handler := &AssignAgentHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-404", AgentID: "agent-1"})
		assert.ErrorIs(t, err, domainbooking.ErrNotFound)
	})

	t.Run("unknown agent user", func(t *testing.T) {
		factory := memory.NewFactory()
		seedBooking(t, factory, "CR-1")

		handler := &AssignAgentHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, AssignAgentCommand{BookingNumber: "CR-1", AgentID: "agent-404"})
		assert.ErrorIs(t, err, domainuser.ErrNotFound)
	})
}
