package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/middleware"
	"fleetrent/internal/app/uow"
	"fleetrent/internal/infra/storage/memory"
)

type pingCommand struct {
	IdemKey string
}

func (c pingCommand) Key() string { return "test.ping" }

func (c pingCommand) IdempotencyKey() string { return c.IdemKey }

func (c pingCommand) ResultPrototype() any { return &pingResult{} }

type pingResult struct {
	Sequence int `json:"sequence"`
}

type plainCommand struct{}

func (c plainCommand) Key() string { return "test.plain" }

func TestIdempotency(t *testing.T) {
	ctx := context.Background()

	newBus := func(t *testing.T, handler func(ctx context.Context, cmd pingCommand) (*pingResult, error)) commands.Bus {
		t.Helper()
		base := commands.NewInMemoryBus()
		commands.RegisterHandler[pingCommand, *pingResult](base, pingCommand{}.Key(), commands.HandlerFunc[pingCommand, *pingResult](handler))
		return middleware.ChainCommands(base, middleware.Idempotency(memory.NewIdempotencyStore(), nil))
	}

	t.Run("replay returns the cached result", func(t *testing.T) {
		calls := 0
		bus := newBus(t, func(ctx context.Context, cmd pingCommand) (*pingResult, error) {
			calls++
			return &pingResult{Sequence: calls}, nil
		})

		first, err := commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{IdemKey: "k-1"})
		require.NoError(t, err)
		second, err := commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{IdemKey: "k-1"})
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first.Sequence, second.Sequence)
	})

	t.Run("distinct keys run the handler again", func(t *testing.T) {
		calls := 0
		bus := newBus(t, func(ctx context.Context, cmd pingCommand) (*pingResult, error) {
			calls++
			return &pingResult{Sequence: calls}, nil
		})

		_, err := commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{IdemKey: "k-1"})
		require.NoError(t, err)
		_, err = commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{IdemKey: "k-2"})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("empty key bypasses the cache", func(t *testing.T) {
		calls := 0
		bus := newBus(t, func(ctx context.Context, cmd pingCommand) (*pingResult, error) {
			calls++
			return &pingResult{Sequence: calls}, nil
		})

		for i := 0; i < 3; i++ {
			_, err := commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{})
			require.NoError(t, err)
		}
		assert.Equal(t, 3, calls)
	})

	t.Run("errors are cached too", func(t *testing.T) {
		calls := 0
		bus := newBus(t, func(ctx context.Context, cmd pingCommand) (*pingResult, error) {
			calls++
			return nil, errors.New("boom")
		})

		_, err := commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{IdemKey: "k-1"})
		require.EqualError(t, err, "boom")
		_, err = commands.Dispatch[pingCommand, *pingResult](ctx, bus, pingCommand{IdemKey: "k-1"})
		require.EqualError(t, err, "boom")
		assert.Equal(t, 1, calls)
	})

	t.Run("non-idempotent commands pass through", func(t *testing.T) {
		base := commands.NewInMemoryBus()
		calls := 0
		commands.RegisterHandler[plainCommand, *pingResult](base, plainCommand{}.Key(),
			commands.HandlerFunc[plainCommand, *pingResult](func(ctx context.Context, cmd plainCommand) (*pingResult, error) {
				calls++
				return &pingResult{Sequence: calls}, nil
			}))
		bus := middleware.ChainCommands(base, middleware.Idempotency(memory.NewIdempotencyStore(), nil))

		_, err := commands.Dispatch[plainCommand, *pingResult](ctx, bus, plainCommand{})
		require.NoError(t, err)
		_, err = commands.Dispatch[plainCommand, *pingResult](ctx, bus, plainCommand{})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

// trackingUnit wraps a unit of work and records its outcome.
type trackingUnit struct {
	uow.UnitOfWork
	committed  bool
	rolledBack bool
}

func (u *trackingUnit) Commit(ctx context.Context) error {
	u.committed = true
	return u.UnitOfWork.Commit(ctx)
}

func (u *trackingUnit) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return u.UnitOfWork.Rollback(ctx)
}

type trackingFactory struct {
	inner uow.UoWFactory
	last  *trackingUnit
}

func (f *trackingFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	unit, err := f.inner.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	f.last = &trackingUnit{UnitOfWork: unit}
	return f.last, nil
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success and shares the unit", func(t *testing.T) {
		factory := &trackingFactory{inner: memory.NewFactory()}
		base := commands.NewInMemoryBus()
		var sawUnit bool
		commands.RegisterHandler[plainCommand, *pingResult](base, plainCommand{}.Key(),
			commands.HandlerFunc[plainCommand, *pingResult](func(ctx context.Context, cmd plainCommand) (*pingResult, error) {
				_, sawUnit = uow.FromContext(ctx)
				return &pingResult{}, nil
			}))
		bus := middleware.ChainCommands(base, middleware.Transaction(factory, nil))

		_, err := commands.Dispatch[plainCommand, *pingResult](ctx, bus, plainCommand{})
		require.NoError(t, err)
		assert.True(t, sawUnit)
		require.NotNil(t, factory.last)
		assert.True(t, factory.last.committed)
		assert.False(t, factory.last.rolledBack)
	})

	t.Run("rolls back on handler error", func(t *testing.T) {
		factory := &trackingFactory{inner: memory.NewFactory()}
		base := commands.NewInMemoryBus()
		commands.RegisterHandler[plainCommand, *pingResult](base, plainCommand{}.Key(),
			commands.HandlerFunc[plainCommand, *pingResult](func(ctx context.Context, cmd plainCommand) (*pingResult, error) {
				return nil, errors.New("boom")
			}))
		bus := middleware.ChainCommands(base, middleware.Transaction(factory, nil))

		_, err := commands.Dispatch[plainCommand, *pingResult](ctx, bus, plainCommand{})
		require.Error(t, err)
		require.NotNil(t, factory.last)
		assert.False(t, factory.last.committed)
		assert.True(t, factory.last.rolledBack)
	})
}
