package middleware

import (
	"context"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/uow"
)

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// ContextBinder is implemented by units of work that carry backend session
// state, such as a Mongo session, that repositories read from the context.
type ContextBinder interface {
	BindContext(ctx context.Context) context.Context
}

// Transaction opens a unit of work per dispatched command, commits on
// success and rolls back otherwise. Handlers reach the unit through the
// context.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			if binder, ok := unit.(ContextBinder); ok {
				ctx = binder.BindContext(ctx)
			}
			execCtx := uow.ContextWithUnitOfWork(ctx, unit)
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := nextFn(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
