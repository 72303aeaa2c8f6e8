package inspection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kingjoe/internal/bootstrap/logging"
	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
	"kingjoe/internal/ports"
)

// CreateInspection opens an inspection from the raw production-order
// projection. Header, lots and colors are written in one transaction.
func (s *Service) CreateInspection(ctx context.Context, input CreateInspectionInput) (*domain.Order, error) {
	if err := s.check(ctx, true); err != nil {
		return nil, err
	}

	code, err := domain.NormalizeOrderCode(input.OrderCode)
	if err != nil {
		return nil, err
	}
	if input.UserID == 0 {
		return nil, domain.ErrUserRequired
	}

	source, err := s.productionView(ctx, code)
	if err != nil {
		return nil, err
	}
	product := strings.TrimSpace(source.Product)
	if product == "" {
		return nil, errs.Wrapf(domain.ErrProductNotFound, "order %q", code)
	}

	now := s.nowUTCString()
	var order *domain.Order
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.InspectionExists(txCtx, code, product)
		if err != nil {
			return err
		}
		if exists {
			return errs.Wrapf(domain.ErrInspectionExists, "order %q", code)
		}

		if _, err := s.repo.CreateInspection(txCtx, ports.InspectionCreate{
			OrderCode: code,
			Product:   product,
			Status:    string(domain.StatusPending),
			OpenedAt:  now,
			OpenedBy:  input.UserID,
			Lots:      source.Lots,
		}); err != nil {
			return err
		}

		rows, err := s.repo.ListInspectionRows(txCtx, code)
		if err != nil {
			return err
		}
		order, err = domain.Aggregate(rows)
		if err != nil {
			return errs.Wrapf(err, "aggregate inspection %q", code)
		}
		// An empty read-back must not leave a header behind.
		if order == nil {
			return errs.WithStack(fmt.Errorf("read back inspection %q returned no rows", code))
		}
		return nil
	}); err != nil {
		return nil, writeFailure(err)
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.inspection")),
		"inspection created",
		slog.String("order_code", code),
		slog.Int("lots", len(order.Lots)),
		slog.Uint64("opened_by", input.UserID),
	)
	return order, nil
}
