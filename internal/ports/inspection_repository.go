package ports

import (
	"context"

	"kingjoe/internal/domain/inspection"
)

// InspectionHeader is the stored inspection_orders row.
type InspectionHeader struct {
	InspectionID uint64
	OrderCode    string
	Product      string
	Status       string
	OpenedAt     string
	ModifiedAt   *string
	OpenedBy     uint64
	ModifiedBy   *uint64
}

type InspectionCreate struct {
	OrderCode string
	Product   string
	Status    string
	OpenedAt  string
	OpenedBy  uint64
	Lots      []inspection.ProductionLot
}

type InspectionStatusUpdate struct {
	InspectionID uint64
	Status       string
	ModifiedAt   string
	ModifiedBy   uint64
}

type InspectionReadRepository interface {
	// ListInspectionRows returns the joined rows of a stored inspection, empty when none exists.
	ListInspectionRows(ctx context.Context, orderCode string) ([]inspection.Row, error)
	// ListProductionOrderRows returns the in-process planning rows of an order, empty when unknown.
	ListProductionOrderRows(ctx context.Context, orderCode string) ([]inspection.Row, error)
	// GetInspection returns inspection.ErrInspectionNotFound when absent. With forUpdate the
	// row is read with a locking clause where the store supports it.
	GetInspection(ctx context.Context, orderCode string, forUpdate bool) (InspectionHeader, error)
	InspectionExists(ctx context.Context, orderCode string, product string) (bool, error)
	CountUnfinishedLots(ctx context.Context, inspectionID uint64) (int64, error)
}

type InspectionRepository interface {
	InspectionReadRepository
	// CreateInspection writes the header, lots and colors; it opens its own
	// transaction unless one is carried by ctx.
	CreateInspection(ctx context.Context, input InspectionCreate) (InspectionHeader, error)
	// DeleteInspection removes the header; lots and colors go with it by cascade.
	DeleteInspection(ctx context.Context, orderCode string) (int64, error)
	UpdateInspectionStatus(ctx context.Context, input InspectionStatusUpdate) error
}
