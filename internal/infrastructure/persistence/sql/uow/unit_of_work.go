package uow

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"kingjoe/internal/bootstrap/logging"
	"kingjoe/internal/errs"
	"kingjoe/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork with gorm.
type UnitOfWork struct {
	db *gorm.DB
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithTx runs fn inside one transaction. A context that already carries a
// transaction joins it, so the outermost caller owns commit and rollback.
func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if fn == nil {
		return errors.New("transaction callback is required")
	}

	if ports.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
	if err != nil {
		logging.Warn(
			logging.WithAttrs(ctx, slog.String("component", "persistence.uow")),
			"transaction rolled back",
			slog.Any("err", errs.Loggable(err)),
		)
	}
	return err
}
