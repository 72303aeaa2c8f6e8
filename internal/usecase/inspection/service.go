package inspection

import (
	"context"
	"errors"
	"time"

	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
	"kingjoe/internal/ports"
)

// Service runs the inspection lifecycle: read-or-fallback, creation,
// deletion and header status changes.
type Service struct {
	repo ports.InspectionRepository
	uow  ports.UnitOfWork
	now  func() time.Time
}

func NewService(repo ports.InspectionRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
		now:  time.Now,
	}
}

type CreateInspectionInput struct {
	OrderCode string
	UserID    uint64
}

type UpdateStatusInput struct {
	OrderCode string
	Status    string
	UserID    uint64
}

func (s *Service) check(ctx context.Context, needTx bool) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("inspection repository is required")
	}
	if needTx && s.uow == nil {
		return errors.New("inspection unit of work is required")
	}
	return nil
}

func (s *Service) nowUTCString() string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UTC().Format(time.RFC3339Nano)
}

// writeFailure classifies an unclassified failure inside a write
// transaction as a conflict. Context errors keep their Internal kind.
func writeFailure(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errs.KindOf(err) != errs.Internal || errors.Is(err, domain.ErrInconsistentRows) {
		return err
	}
	return errs.Mark(err, errs.Conflict)
}
