package inspection

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending    Status = "Pendente"
	StatusInProgress Status = "Andamento"
	StatusClosed     Status = "Encerrada"
	StatusFinished   Status = "Finalizada"
)

// Lot and color statuses are written by the shop-floor workflow, not here.
const (
	LotPending   = "Pendente"
	LotFinished  = "Finalizado"
	ColorPending = "Pendente"
)

var allowedStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusClosed:     {},
	StatusFinished:   {},
}

func ParseStatus(raw string) (Status, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrStatusRequired
	}

	status := Status(trimmed)
	if _, ok := allowedStatuses[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// IsTerminal reports whether the header accepts no further status changes.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusFinished
}

// Transition is what the lifecycle knows when a status change is requested.
type Transition struct {
	Current        Status
	Target         Status
	UnfinishedLots int64
}

// EvaluateTransition applies the header state machine guards.
func EvaluateTransition(in Transition) error {
	if _, ok := allowedStatuses[in.Target]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, in.Target)
	}

	if Status(strings.TrimSpace(string(in.Current))).IsTerminal() {
		return fmt.Errorf("%w: current status %q", ErrInspectionClosed, in.Current)
	}

	if in.Target.IsTerminal() && in.UnfinishedLots > 0 {
		return fmt.Errorf("%w: %d lot(s) pending", ErrLotsNotFinished, in.UnfinishedLots)
	}

	return nil
}
