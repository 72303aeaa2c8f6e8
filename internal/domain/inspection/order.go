package inspection

import "strings"

// Row is one flat record of an order join: header fields repeated on every
// row plus a single phase/resource/color combination.
// Nil pointers are columns the source returned as NULL.
type Row struct {
	OrderCode        string
	Product          string
	InspectionStatus *string
	OpenedAt         *string
	ModifiedAt       *string
	OpenedBy         *string
	ModifiedBy       *string

	PhaseCode    string
	PhaseDesc    string
	ResourceCode string
	ResourceDesc string
	LotStatus    *string

	ColorCode   string
	ColorDesc   string
	Quantity    int
	Sample      *int
	ColorStatus *string
}

// Order is the aggregated order → lot → color tree. Empty header strings
// mean the value is absent (an order that was never inspected).
type Order struct {
	OrderCode  string
	Product    string
	Status     string
	OpenedAt   string
	ModifiedAt string
	OpenedBy   string
	ModifiedBy string
	Lots       []ProductionLot
}

type ProductionLot struct {
	PhaseCode    string
	PhaseDesc    string
	ResourceCode string
	ResourceDesc string
	Status       string
	Total        int
	Colors       []ColorBatch
}

type ColorBatch struct {
	ColorCode string
	ColorDesc string
	Total     int
	Sample    int
	Status    string
}

// NormalizeOrderCode trims an order code and rejects empty input.
func NormalizeOrderCode(orderCode string) (string, error) {
	trimmed := strings.TrimSpace(orderCode)
	if trimmed == "" {
		return "", ErrOrderCodeRequired
	}
	return trimmed, nil
}

// rtrim strips the padding of fixed-width source columns.
func rtrim(s string) string {
	return strings.TrimRight(s, " \t")
}

func rtrimPtr(s *string) string {
	if s == nil {
		return ""
	}
	return rtrim(*s)
}
