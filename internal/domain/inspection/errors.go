package inspection

import "kingjoe/internal/errs"

var (
	ErrOrderCodeRequired = errs.New(errs.Validation, "order code is required")
	ErrStatusRequired    = errs.New(errs.Validation, "status is required")
	ErrInvalidStatus     = errs.New(errs.Validation, "invalid inspection status")
	ErrUserRequired      = errs.New(errs.Validation, "user is required")

	ErrOrderNotFound      = errs.New(errs.NotFound, "production order not found")
	ErrProductNotFound    = errs.New(errs.NotFound, "product not found in production order data")
	ErrInspectionNotFound = errs.New(errs.NotFound, "inspection not found for production order")

	ErrInspectionExists = errs.New(errs.Conflict, "inspection already exists for production order")
	ErrLotsNotFinished  = errs.New(errs.Conflict, "inspection cannot be closed while lots are not finished")
	ErrInspectionClosed = errs.New(errs.Conflict, "inspection is closed")

	ErrInconsistentRows = errs.New(errs.Internal, "order rows carry inconsistent header fields")
)
