package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func rawRow(phase, resource, color string, qty int) Row {
	return Row{
		OrderCode:    "OP12345 ",
		Product:      "PRD001      ",
		PhaseCode:    phase,
		PhaseDesc:    "Tecelagem   ",
		ResourceCode: resource,
		ResourceDesc: "Tear 01   ",
		ColorCode:    color,
		ColorDesc:    color + " desc  ",
		Quantity:     qty,
	}
}

func TestAggregateSingleLotComputesSamples(t *testing.T) {
	order, err := Aggregate([]Row{
		rawRow("TEC01", "R01", "AZ", 12),
		rawRow("TEC01", "R01", "VM", 300),
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "OP12345", order.OrderCode)
	assert.Equal(t, "PRD001", order.Product)
	assert.Empty(t, order.Status)
	require.Len(t, order.Lots, 1)

	lot := order.Lots[0]
	assert.Equal(t, "TEC01", lot.PhaseCode)
	assert.Equal(t, "R01", lot.ResourceCode)
	assert.Equal(t, "Tecelagem", lot.PhaseDesc)
	assert.Equal(t, "Tear 01", lot.ResourceDesc)
	assert.Equal(t, LotPending, lot.Status)
	assert.Equal(t, 312, lot.Total)

	require.Len(t, lot.Colors, 2)
	assert.Equal(t, ColorBatch{ColorCode: "AZ", ColorDesc: "AZ desc", Total: 12, Sample: 3, Status: ColorPending}, lot.Colors[0])
	assert.Equal(t, ColorBatch{ColorCode: "VM", ColorDesc: "VM desc", Total: 300, Sample: 50, Status: ColorPending}, lot.Colors[1])
}

func TestAggregateGroupsByPhaseAndResourceInFirstSeenOrder(t *testing.T) {
	rows := []Row{
		rawRow("COS", "R02", "AZ", 10),
		rawRow("TEC", "R01", "AZ", 5),
		rawRow("COS", "R02", "VM", 20),
		// same resource under another phase is a distinct lot
		rawRow("TEC", "R02", "PT", 7),
		rawRow("TEC", "R01", "VM", 1),
	}

	order, err := Aggregate(rows)
	require.NoError(t, err)
	require.Len(t, order.Lots, 3)

	keys := make([]string, 0, len(order.Lots))
	colorCount := 0
	for _, lot := range order.Lots {
		keys = append(keys, lot.PhaseCode+"/"+lot.ResourceCode)

		sum := 0
		for _, c := range lot.Colors {
			sum += c.Total
		}
		assert.Equal(t, sum, lot.Total, "lot %s/%s total", lot.PhaseCode, lot.ResourceCode)
		colorCount += len(lot.Colors)
	}
	assert.Equal(t, []string{"COS/R02", "TEC/R01", "TEC/R02"}, keys)
	assert.Equal(t, len(rows), colorCount)
	assert.Equal(t, []string{"AZ", "VM"}, []string{order.Lots[0].Colors[0].ColorCode, order.Lots[0].Colors[1].ColorCode})
}

func TestAggregateKeepsStoredSampleAndStatuses(t *testing.T) {
	row := rawRow("TEC01", "R01", "AZ", 12)
	row.InspectionStatus = strPtr("Andamento")
	row.OpenedAt = strPtr("2026-01-02T10:00:00Z")
	row.OpenedBy = strPtr("maria   ")
	row.LotStatus = strPtr("Finalizado")
	row.Sample = intPtr(7)
	row.ColorStatus = strPtr("Aprovado")

	order, err := Aggregate([]Row{row})
	require.NoError(t, err)

	assert.Equal(t, "Andamento", order.Status)
	assert.Equal(t, "maria", order.OpenedBy)
	assert.Empty(t, order.ModifiedBy)
	assert.Equal(t, LotFinished, order.Lots[0].Status)
	assert.Equal(t, 7, order.Lots[0].Colors[0].Sample)
	assert.Equal(t, "Aprovado", order.Lots[0].Colors[0].Status)
}

func TestAggregateEmptyIsNotFound(t *testing.T) {
	order, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestAggregateRejectsInconsistentHeader(t *testing.T) {
	second := rawRow("TEC01", "R01", "VM", 3)
	second.Product = "OTHER"

	_, err := Aggregate([]Row{rawRow("TEC01", "R01", "AZ", 12), second})
	require.ErrorIs(t, err, ErrInconsistentRows)
}

func TestAggregateIsDeterministic(t *testing.T) {
	rows := []Row{
		rawRow("TEC01", "R01", "AZ", 12),
		rawRow("TEC02", "R01", "VM", 300),
	}

	first, err := Aggregate(rows)
	require.NoError(t, err)
	second, err := Aggregate(rows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
