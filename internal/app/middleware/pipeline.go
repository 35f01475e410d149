package middleware

import (
	"context"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/queries"
)

// CommandMiddleware wraps the dispatch path. The server stacks
// idempotency, validation and transaction handling here so individual
// handlers stay free of that plumbing.
type CommandMiddleware func(next commands.Bus) commands.Bus

// QueryMiddleware wraps the read path the same way.
type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands applies middleware outermost first: the first entry
// sees the command before any other.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// ChainQueries builds a query bus with middleware applied.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// commandFunc adapts a closure into a commands.Bus so each middleware
// stays a single function.
type commandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f commandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

func wrapCommand(next commands.Bus) commandFunc {
	return func(ctx context.Context, cmd commands.Command) (any, error) {
		return next.Dispatch(ctx, cmd)
	}
}

type queryFunc func(ctx context.Context, query queries.Query) (any, error)

func (f queryFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}

func wrapQuery(next queries.Bus) queryFunc {
	return func(ctx context.Context, q queries.Query) (any, error) {
		return next.Ask(ctx, q)
	}
}
