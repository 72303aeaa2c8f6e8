package inspection

import (
	"context"
	"log/slog"

	"kingjoe/internal/bootstrap/logging"
	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
	"kingjoe/internal/ports"
)

// UpdateStatus moves the inspection header to a new status and returns the
// stored modification timestamp. The guard read and the write share one
// transaction.
func (s *Service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (string, error) {
	if err := s.check(ctx, true); err != nil {
		return "", err
	}

	code, err := domain.NormalizeOrderCode(input.OrderCode)
	if err != nil {
		return "", err
	}
	target, err := domain.ParseStatus(input.Status)
	if err != nil {
		return "", err
	}
	if input.UserID == 0 {
		return "", domain.ErrUserRequired
	}

	now := s.nowUTCString()
	var (
		previous   string
		modifiedAt string
	)
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		header, err := s.repo.GetInspection(txCtx, code, true)
		if err != nil {
			return err
		}
		previous = header.Status

		unfinished, err := s.repo.CountUnfinishedLots(txCtx, header.InspectionID)
		if err != nil {
			return err
		}
		if err := domain.EvaluateTransition(domain.Transition{
			Current:        domain.Status(header.Status),
			Target:         target,
			UnfinishedLots: unfinished,
		}); err != nil {
			return errs.Wrapf(err, "order %q", code)
		}

		if err := s.repo.UpdateInspectionStatus(txCtx, ports.InspectionStatusUpdate{
			InspectionID: header.InspectionID,
			Status:       string(target),
			ModifiedAt:   now,
			ModifiedBy:   input.UserID,
		}); err != nil {
			return err
		}

		updated, err := s.repo.GetInspection(txCtx, code, false)
		if err != nil {
			return err
		}
		modifiedAt = now
		if updated.ModifiedAt != nil {
			modifiedAt = *updated.ModifiedAt
		}
		return nil
	}); err != nil {
		return "", writeFailure(err)
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.inspection")),
		"inspection status changed",
		slog.String("order_code", code),
		slog.String("from", previous),
		slog.String("to", string(target)),
		slog.Uint64("modified_by", input.UserID),
	)
	return modifiedAt, nil
}
