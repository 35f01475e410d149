package support

import (
	"context"

	"fleetrent/internal/app/uow"
)

// BeginWriteUnit returns the ambient unit of work, or starts one that the
// returned finish func commits (on nil error) or rolls back.
func BeginWriteUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(error) error, error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		finish := func(err error) error { return err }
		return unit, ctx, finish, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := ctx
	if injector, ok := newUnit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, newUnit)
	finish := func(err error) error {
		if err != nil {
			_ = newUnit.Rollback(execCtx)
			return err
		}
		return newUnit.Commit(execCtx)
	}
	return newUnit, execCtx, finish, nil
}

func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := ctx
	if injector, ok := newUnit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, newUnit)
	cleanup := func() {
		_ = newUnit.Rollback(execCtx)
	}
	return newUnit, execCtx, cleanup, nil
}
