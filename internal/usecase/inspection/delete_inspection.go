package inspection

import (
	"context"
	"errors"
	"log/slog"

	"kingjoe/internal/bootstrap/logging"
	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
)

// DeleteInspection removes a stored inspection regardless of its status and
// returns the production-order view that remains. The view is nil when the
// order has no phase left in process.
func (s *Service) DeleteInspection(ctx context.Context, orderCode string) (*domain.Order, error) {
	if err := s.check(ctx, true); err != nil {
		return nil, err
	}

	code, err := domain.NormalizeOrderCode(orderCode)
	if err != nil {
		return nil, err
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetInspection(txCtx, code, true); err != nil {
			return err
		}

		deleted, err := s.repo.DeleteInspection(txCtx, code)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errs.Wrapf(domain.ErrInspectionNotFound, "delete %q", code)
		}
		return nil
	}); err != nil {
		return nil, writeFailure(err)
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.inspection")),
		"inspection deleted",
		slog.String("order_code", code),
	)

	order, err := s.productionView(ctx, code)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
