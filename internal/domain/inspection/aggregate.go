package inspection

import "fmt"

type lotKey struct {
	phase    string
	resource string
}

// Aggregate folds flat rows into one order tree. Lots are keyed by
// (phase, resource) and keep the order in which their first row appeared;
// colors keep input order inside their lot.
//
// Zero rows means the order does not exist and yields a nil order.
// Header fields must be identical on every row.
func Aggregate(rows []Row) (*Order, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	first := rows[0]
	order := &Order{
		OrderCode:  rtrim(first.OrderCode),
		Product:    rtrim(first.Product),
		Status:     rtrimPtr(first.InspectionStatus),
		OpenedAt:   rtrimPtr(first.OpenedAt),
		ModifiedAt: rtrimPtr(first.ModifiedAt),
		OpenedBy:   rtrimPtr(first.OpenedBy),
		ModifiedBy: rtrimPtr(first.ModifiedBy),
	}

	index := make(map[lotKey]int)
	for i, row := range rows {
		if i > 0 {
			if err := checkHeader(order, row, i); err != nil {
				return nil, err
			}
		}

		key := lotKey{phase: rtrim(row.PhaseCode), resource: rtrim(row.ResourceCode)}
		idx, ok := index[key]
		if !ok {
			order.Lots = append(order.Lots, ProductionLot{
				PhaseCode:    key.phase,
				PhaseDesc:    rtrim(row.PhaseDesc),
				ResourceCode: key.resource,
				ResourceDesc: rtrim(row.ResourceDesc),
				Status:       statusOrDefault(row.LotStatus, LotPending),
			})
			idx = len(order.Lots) - 1
			index[key] = idx
		}

		lot := &order.Lots[idx]
		lot.Total += row.Quantity

		sample := SampleSize(row.Quantity)
		if row.Sample != nil {
			sample = *row.Sample
		}

		lot.Colors = append(lot.Colors, ColorBatch{
			ColorCode: rtrim(row.ColorCode),
			ColorDesc: rtrim(row.ColorDesc),
			Total:     row.Quantity,
			Sample:    sample,
			Status:    statusOrDefault(row.ColorStatus, ColorPending),
		})
	}

	return order, nil
}

func checkHeader(order *Order, row Row, pos int) error {
	fields := []struct {
		name string
		want string
		got  string
	}{
		{"order_code", order.OrderCode, rtrim(row.OrderCode)},
		{"product", order.Product, rtrim(row.Product)},
		{"status", order.Status, rtrimPtr(row.InspectionStatus)},
		{"opened_at", order.OpenedAt, rtrimPtr(row.OpenedAt)},
		{"modified_at", order.ModifiedAt, rtrimPtr(row.ModifiedAt)},
		{"opened_by", order.OpenedBy, rtrimPtr(row.OpenedBy)},
		{"modified_by", order.ModifiedBy, rtrimPtr(row.ModifiedBy)},
	}
	for _, f := range fields {
		if f.want != f.got {
			return fmt.Errorf("%w: row %d %s=%q, first row %s=%q", ErrInconsistentRows, pos, f.name, f.got, f.name, f.want)
		}
	}
	return nil
}

func statusOrDefault(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return rtrim(*value)
}
