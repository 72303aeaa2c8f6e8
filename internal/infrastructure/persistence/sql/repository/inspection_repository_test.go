package repository

import (
	"context"
	"errors"
	"testing"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"kingjoe/internal/domain/inspection"
	"kingjoe/internal/infrastructure/persistence/sql/model"
	"kingjoe/internal/infrastructure/persistence/sql/testdb"
	"kingjoe/internal/ports"
)

func setupInspectionRepository(t *testing.T) (*InspectionRepository, *gorm.DB) {
	t.Helper()

	db := testdb.Open(t)
	testdb.SeedCatalog(t, db)
	testdb.SeedOrder(t, db, "OP12345",
		testdb.Task{Task: 10, Phase: testdb.PhaseWeave, Resource: testdb.ResourceR01, InProcess: 312, Colors: []testdb.ColorQty{
			{Color: "AZ", Quantity: 12},
			{Color: "VM", Quantity: 300},
		}},
		testdb.Task{Task: 20, Phase: testdb.PhaseSew, Resource: testdb.ResourceR02, InProcess: 0, Colors: []testdb.ColorQty{
			{Color: "PT", Quantity: 40},
		}},
	)
	return NewInspectionRepository(db), db
}

func sampleCreate(orderCode string) ports.InspectionCreate {
	return ports.InspectionCreate{
		OrderCode: orderCode,
		Product:   testdb.Product,
		Status:    string(inspection.StatusPending),
		OpenedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		OpenedBy:  testdb.UserMaria,
		Lots: []inspection.ProductionLot{
			{
				PhaseCode:    testdb.PhaseWeave,
				ResourceCode: testdb.ResourceR01,
				Total:        312,
				Colors: []inspection.ColorBatch{
					{ColorCode: "AZ", Total: 12, Sample: 3, Status: inspection.ColorPending},
					{ColorCode: "VM", Total: 300, Sample: 50},
				},
			},
			{
				PhaseCode:    testdb.PhaseSew,
				ResourceCode: testdb.ResourceR02,
				Total:        40,
				Colors: []inspection.ColorBatch{
					{ColorCode: "PT", Total: 40, Sample: 8},
				},
			},
		},
	}
}

func TestListProductionOrderRowsSkipsPhasesWithoutQuantity(t *testing.T) {
	repo, _ := setupInspectionRepository(t)
	ctx := context.Background()

	rows, err := repo.ListProductionOrderRows(ctx, "OP12345")
	if err != nil {
		t.Fatalf("ListProductionOrderRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListProductionOrderRows() len = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.PhaseCode != testdb.PhaseWeave {
			t.Fatalf("phase = %q, want only %q", row.PhaseCode, testdb.PhaseWeave)
		}
		if row.InspectionStatus != nil || row.Sample != nil || row.LotStatus != nil {
			t.Fatalf("planning row carries inspection columns: %+v", row)
		}
	}
	if rows[0].ColorCode != "AZ" || rows[0].Quantity != 12 || rows[0].Product != testdb.Product {
		t.Fatalf("first row = %+v", rows[0])
	}

	none, err := repo.ListProductionOrderRows(ctx, "OP00000")
	if err != nil {
		t.Fatalf("ListProductionOrderRows(unknown) error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("ListProductionOrderRows(unknown) len = %d", len(none))
	}
}

func TestCreateInspectionThenListRows(t *testing.T) {
	repo, _ := setupInspectionRepository(t)
	ctx := context.Background()

	header, err := repo.CreateInspection(ctx, sampleCreate("OP12345"))
	if err != nil {
		t.Fatalf("CreateInspection() error = %v", err)
	}
	if header.InspectionID == 0 || header.Status != "Pendente" || header.ModifiedBy != nil {
		t.Fatalf("CreateInspection() header = %+v", header)
	}

	rows, err := repo.ListInspectionRows(ctx, "OP12345")
	if err != nil {
		t.Fatalf("ListInspectionRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ListInspectionRows() len = %d, want 3", len(rows))
	}

	got := []string{rows[0].ColorCode, rows[1].ColorCode, rows[2].ColorCode}
	if got[0] != "AZ" || got[1] != "VM" || got[2] != "PT" {
		t.Fatalf("color order = %v", got)
	}
	first := rows[0]
	if first.OpenedBy == nil || *first.OpenedBy != "maria" {
		t.Fatalf("opened_by = %v", first.OpenedBy)
	}
	if first.ModifiedBy != nil {
		t.Fatalf("modified_by = %v, want nil", *first.ModifiedBy)
	}
	if first.LotStatus == nil || *first.LotStatus != inspection.LotPending {
		t.Fatalf("lot status = %v", first.LotStatus)
	}
	if rows[1].ColorStatus == nil || *rows[1].ColorStatus != inspection.ColorPending {
		t.Fatalf("defaulted color status = %v", rows[1].ColorStatus)
	}
	if first.Sample == nil || *first.Sample != 3 {
		t.Fatalf("sample = %v", first.Sample)
	}
}

func TestCreateInspectionIsAllOrNothing(t *testing.T) {
	repo, db := setupInspectionRepository(t)
	ctx := context.Background()

	// fail the color insert of the second lot, after the header and both lots were written
	colorInserts := 0
	if err := db.Callback().Create().Before("gorm:create").Register("test:fail_second_color_batch", func(tx *gorm.DB) {
		if tx.Statement.Table != "inspection_colors" {
			return
		}
		colorInserts++
		if colorInserts == 2 {
			_ = tx.AddError(errors.New("disk I/O error"))
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := repo.CreateInspection(ctx, sampleCreate("OP12345")); err == nil {
		t.Fatalf("CreateInspection() error = nil, want failure")
	}
	if colorInserts != 2 {
		t.Fatalf("color inserts attempted = %d, want 2", colorInserts)
	}

	if n := testdb.Count(t, db, &model.InspectionOrder{}); n != 0 {
		t.Fatalf("inspection_orders rows = %d, want 0", n)
	}
	if n := testdb.Count(t, db, &model.InspectionLot{}); n != 0 {
		t.Fatalf("inspection_lots rows = %d, want 0", n)
	}
	if n := testdb.Count(t, db, &model.InspectionColor{}); n != 0 {
		t.Fatalf("inspection_colors rows = %d, want 0", n)
	}
}

func TestCreateInspectionKeepsRepeatedColorOfOneLot(t *testing.T) {
	repo, _ := setupInspectionRepository(t)
	ctx := context.Background()

	input := sampleCreate("OP12345")
	input.Lots[1].Colors = append(input.Lots[1].Colors, inspection.ColorBatch{ColorCode: "PT", Total: 5, Sample: 2})
	input.Lots[1].Total += 5

	if _, err := repo.CreateInspection(ctx, input); err != nil {
		t.Fatalf("CreateInspection() error = %v", err)
	}

	rows, err := repo.ListInspectionRows(ctx, "OP12345")
	if err != nil {
		t.Fatalf("ListInspectionRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("ListInspectionRows() len = %d, want 4", len(rows))
	}
	if rows[2].ColorCode != "PT" || rows[3].ColorCode != "PT" || rows[3].Quantity != 5 {
		t.Fatalf("repeated color rows = %+v, %+v", rows[2], rows[3])
	}
}

func TestListInspectionRowsWithUnknownOpener(t *testing.T) {
	repo, _ := setupInspectionRepository(t)
	ctx := context.Background()

	input := sampleCreate("OP12345")
	input.OpenedBy = 99
	if _, err := repo.CreateInspection(ctx, input); err != nil {
		t.Fatalf("CreateInspection() error = %v", err)
	}

	rows, err := repo.ListInspectionRows(ctx, "OP12345")
	if err != nil {
		t.Fatalf("ListInspectionRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ListInspectionRows() len = %d, want 3", len(rows))
	}
	if rows[0].OpenedBy == nil || *rows[0].OpenedBy != "99" {
		t.Fatalf("opened_by = %v, want user id fallback 99", rows[0].OpenedBy)
	}
	if rows[0].ModifiedBy != nil {
		t.Fatalf("modified_by = %q, want nil", *rows[0].ModifiedBy)
	}
}

func TestCreateInspectionDuplicateOrderIsExists(t *testing.T) {
	repo, _ := setupInspectionRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateInspection(ctx, sampleCreate("OP12345")); err != nil {
		t.Fatalf("CreateInspection(first) error = %v", err)
	}

	_, err := repo.CreateInspection(ctx, sampleCreate("OP12345"))
	if !errors.Is(err, inspection.ErrInspectionExists) {
		t.Fatalf("CreateInspection(duplicate) error = %v, want ErrInspectionExists", err)
	}
}

func TestIsDuplicateKeyUsesTypedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "postgres unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "postgres other", err: &pgconn.PgError{Code: "23503", Message: "duplicate key value"}, want: false},
		{name: "message only", err: errors.New("UNIQUE constraint failed: inspection_lots.phase_code"), want: false},
		{name: "message mentions duplicate", err: errors.New("duplicate key in upstream cache"), want: false},
	}
	for _, tc := range cases {
		if got := isDuplicateKey(tc.err); got != tc.want {
			t.Fatalf("%s: isDuplicateKey(%v) = %v, want %v", tc.name, tc.err, got, tc.want)
		}
	}
}

func TestDeleteInspectionCascades(t *testing.T) {
	repo, db := setupInspectionRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateInspection(ctx, sampleCreate("OP12345")); err != nil {
		t.Fatalf("CreateInspection() error = %v", err)
	}

	deleted, err := repo.DeleteInspection(ctx, "OP12345")
	if err != nil {
		t.Fatalf("DeleteInspection() error = %v", err)
	}
	if deleted != 1 {
		t.Fatalf("DeleteInspection() affected = %d, want 1", deleted)
	}
	if n := testdb.Count(t, db, &model.InspectionLot{}); n != 0 {
		t.Fatalf("inspection_lots rows after delete = %d", n)
	}
	if n := testdb.Count(t, db, &model.InspectionColor{}); n != 0 {
		t.Fatalf("inspection_colors rows after delete = %d", n)
	}

	if _, err := repo.GetInspection(ctx, "OP12345", false); !errors.Is(err, inspection.ErrInspectionNotFound) {
		t.Fatalf("GetInspection() after delete error = %v", err)
	}
}

func TestUpdateStatusAndUnfinishedLots(t *testing.T) {
	repo, db := setupInspectionRepository(t)
	ctx := context.Background()

	header, err := repo.CreateInspection(ctx, sampleCreate("OP12345"))
	if err != nil {
		t.Fatalf("CreateInspection() error = %v", err)
	}

	pending, err := repo.CountUnfinishedLots(ctx, header.InspectionID)
	if err != nil {
		t.Fatalf("CountUnfinishedLots() error = %v", err)
	}
	if pending != 2 {
		t.Fatalf("CountUnfinishedLots() = %d, want 2", pending)
	}

	testdb.SetLotStatus(t, db, "OP12345", testdb.PhaseWeave, testdb.ResourceR01, inspection.LotFinished)
	pending, err = repo.CountUnfinishedLots(ctx, header.InspectionID)
	if err != nil {
		t.Fatalf("CountUnfinishedLots() error = %v", err)
	}
	if pending != 1 {
		t.Fatalf("CountUnfinishedLots() = %d, want 1", pending)
	}

	modifiedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if err := repo.UpdateInspectionStatus(ctx, ports.InspectionStatusUpdate{
		InspectionID: header.InspectionID,
		Status:       string(inspection.StatusInProgress),
		ModifiedAt:   modifiedAt,
		ModifiedBy:   testdb.UserJoao,
	}); err != nil {
		t.Fatalf("UpdateInspectionStatus() error = %v", err)
	}

	got, err := repo.GetInspection(ctx, "OP12345", true)
	if err != nil {
		t.Fatalf("GetInspection() error = %v", err)
	}
	if got.Status != "Andamento" {
		t.Fatalf("status = %q", got.Status)
	}
	if got.ModifiedAt == nil || *got.ModifiedAt != modifiedAt {
		t.Fatalf("modified_at = %v, want %q", got.ModifiedAt, modifiedAt)
	}
	if got.ModifiedBy == nil || *got.ModifiedBy != testdb.UserJoao {
		t.Fatalf("modified_by = %v", got.ModifiedBy)
	}

	err = repo.UpdateInspectionStatus(ctx, ports.InspectionStatusUpdate{InspectionID: 999, Status: "Andamento", ModifiedAt: modifiedAt, ModifiedBy: 1})
	if !errors.Is(err, inspection.ErrInspectionNotFound) {
		t.Fatalf("UpdateInspectionStatus(unknown) error = %v", err)
	}
}

func TestInspectionExistsMatchesOrderAndProduct(t *testing.T) {
	repo, _ := setupInspectionRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateInspection(ctx, sampleCreate("OP12345")); err != nil {
		t.Fatalf("CreateInspection() error = %v", err)
	}

	ok, err := repo.InspectionExists(ctx, "OP12345", testdb.Product)
	if err != nil || !ok {
		t.Fatalf("InspectionExists() = %v, %v", ok, err)
	}
	ok, err = repo.InspectionExists(ctx, "OP12345", "OTHER")
	if err != nil || ok {
		t.Fatalf("InspectionExists(other product) = %v, %v", ok, err)
	}
}
