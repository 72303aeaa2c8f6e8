package httpapi

import domain "kingjoe/internal/domain/inspection"

// OrderResponse is the JSON shape of an aggregated order.
type OrderResponse struct {
	OrderCode  string        `json:"order_code"`
	Product    string        `json:"product"`
	Status     *string       `json:"status"`
	OpenedAt   *string       `json:"opened_at"`
	ModifiedAt *string       `json:"modified_at"`
	OpenedBy   *string       `json:"opened_by"`
	ModifiedBy *string       `json:"modified_by"`
	Lots       []lotResponse `json:"lots"`
}

type lotResponse struct {
	PhaseCode    string          `json:"phase_code"`
	PhaseDesc    string          `json:"phase_desc"`
	ResourceCode string          `json:"resource_code"`
	ResourceDesc string          `json:"resource_desc"`
	Status       string          `json:"status"`
	Total        int             `json:"total"`
	Colors       []colorResponse `json:"colors"`
}

type colorResponse struct {
	ColorCode string `json:"color_code"`
	ColorDesc string `json:"color_desc"`
	Total     int    `json:"total"`
	Sample    int    `json:"sample"`
	Status    string `json:"status"`
}

// NewOrderResponse maps absent header values to JSON null. A nil order
// encodes as null.
func NewOrderResponse(order *domain.Order) *OrderResponse {
	if order == nil {
		return nil
	}

	out := &OrderResponse{
		OrderCode:  order.OrderCode,
		Product:    order.Product,
		Status:     nullable(order.Status),
		OpenedAt:   nullable(order.OpenedAt),
		ModifiedAt: nullable(order.ModifiedAt),
		OpenedBy:   nullable(order.OpenedBy),
		ModifiedBy: nullable(order.ModifiedBy),
		Lots:       make([]lotResponse, 0, len(order.Lots)),
	}
	for _, lot := range order.Lots {
		colors := make([]colorResponse, 0, len(lot.Colors))
		for _, c := range lot.Colors {
			colors = append(colors, colorResponse(c))
		}
		out.Lots = append(out.Lots, lotResponse{
			PhaseCode:    lot.PhaseCode,
			PhaseDesc:    lot.PhaseDesc,
			ResourceCode: lot.ResourceCode,
			ResourceDesc: lot.ResourceDesc,
			Status:       lot.Status,
			Total:        lot.Total,
			Colors:       colors,
		})
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
