package inspection

import (
	"context"
	"log/slog"

	"kingjoe/internal/bootstrap/logging"
	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
)

// GetOrder returns the stored inspection of an order, or the raw
// production-order projection when the order was never inspected.
func (s *Service) GetOrder(ctx context.Context, orderCode string) (*domain.Order, error) {
	if err := s.check(ctx, false); err != nil {
		return nil, err
	}

	code, err := domain.NormalizeOrderCode(orderCode)
	if err != nil {
		return nil, err
	}

	order, err := s.inspectionView(ctx, code)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}

	logging.Debug(
		logging.WithAttrs(ctx, slog.String("component", "usecase.inspection")),
		"no inspection stored, falling back to production order",
		slog.String("order_code", code),
	)
	return s.productionView(ctx, code)
}

// GetProductionOrder returns only the raw production-order projection.
func (s *Service) GetProductionOrder(ctx context.Context, orderCode string) (*domain.Order, error) {
	if err := s.check(ctx, false); err != nil {
		return nil, err
	}

	code, err := domain.NormalizeOrderCode(orderCode)
	if err != nil {
		return nil, err
	}
	return s.productionView(ctx, code)
}

// inspectionView returns nil without error when no inspection is stored.
func (s *Service) inspectionView(ctx context.Context, code string) (*domain.Order, error) {
	rows, err := s.repo.ListInspectionRows(ctx, code)
	if err != nil {
		return nil, err
	}
	order, err := domain.Aggregate(rows)
	if err != nil {
		return nil, errs.Wrapf(err, "aggregate inspection %q", code)
	}
	return order, nil
}

func (s *Service) productionView(ctx context.Context, code string) (*domain.Order, error) {
	rows, err := s.repo.ListProductionOrderRows(ctx, code)
	if err != nil {
		return nil, err
	}
	order, err := domain.Aggregate(rows)
	if err != nil {
		return nil, errs.Wrapf(err, "aggregate production order %q", code)
	}
	if order == nil {
		return nil, errs.Wrapf(domain.ErrOrderNotFound, "order %q", code)
	}
	return order, nil
}
