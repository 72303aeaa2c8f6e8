package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kingjoe/internal/domain/inspection"
	"kingjoe/internal/errs"
	"kingjoe/internal/infrastructure/persistence/sql/model"
	"kingjoe/internal/ports"
)

const pgErrUniqueViolation = "23505"

type InspectionRepository struct {
	db *gorm.DB
}

var _ ports.InspectionRepository = (*InspectionRepository)(nil)

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func (r *InspectionRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// inspectionRow maps one row of the stored-inspection join by column name.
type inspectionRow struct {
	OrderCode        string  `gorm:"column:order_code"`
	Product          string  `gorm:"column:product"`
	InspectionStatus *string `gorm:"column:inspection_status"`
	OpenedAt         *string `gorm:"column:opened_at"`
	ModifiedAt       *string `gorm:"column:modified_at"`
	OpenedBy         *string `gorm:"column:opened_by"`
	ModifiedBy       *string `gorm:"column:modified_by"`
	PhaseCode        string  `gorm:"column:phase_code"`
	PhaseDesc        string  `gorm:"column:phase_desc"`
	ResourceCode     string  `gorm:"column:resource_code"`
	ResourceDesc     string  `gorm:"column:resource_desc"`
	LotStatus        *string `gorm:"column:lot_status"`
	ColorCode        string  `gorm:"column:color_code"`
	ColorDesc        string  `gorm:"column:color_desc"`
	Quantity         int     `gorm:"column:quantity"`
	Sample           *int    `gorm:"column:sample"`
	ColorStatus      *string `gorm:"column:color_status"`
}

func (row inspectionRow) toDomain() inspection.Row {
	return inspection.Row{
		OrderCode:        row.OrderCode,
		Product:          row.Product,
		InspectionStatus: row.InspectionStatus,
		OpenedAt:         row.OpenedAt,
		ModifiedAt:       row.ModifiedAt,
		OpenedBy:         row.OpenedBy,
		ModifiedBy:       row.ModifiedBy,
		PhaseCode:        row.PhaseCode,
		PhaseDesc:        row.PhaseDesc,
		ResourceCode:     row.ResourceCode,
		ResourceDesc:     row.ResourceDesc,
		LotStatus:        row.LotStatus,
		ColorCode:        row.ColorCode,
		ColorDesc:        row.ColorDesc,
		Quantity:         row.Quantity,
		Sample:           row.Sample,
		ColorStatus:      row.ColorStatus,
	}
}

// productionOrderRow maps one row of the planning join. Inspection-only
// columns do not exist on this path and stay nil in the domain row.
type productionOrderRow struct {
	OrderCode    string `gorm:"column:order_code"`
	Product      string `gorm:"column:product"`
	PhaseCode    string `gorm:"column:phase_code"`
	PhaseDesc    string `gorm:"column:phase_desc"`
	ResourceCode string `gorm:"column:resource_code"`
	ResourceDesc string `gorm:"column:resource_desc"`
	ColorCode    string `gorm:"column:color_code"`
	ColorDesc    string `gorm:"column:color_desc"`
	Quantity     int    `gorm:"column:quantity"`
}

func (row productionOrderRow) toDomain() inspection.Row {
	return inspection.Row{
		OrderCode:    row.OrderCode,
		Product:      row.Product,
		PhaseCode:    row.PhaseCode,
		PhaseDesc:    row.PhaseDesc,
		ResourceCode: row.ResourceCode,
		ResourceDesc: row.ResourceDesc,
		ColorCode:    row.ColorCode,
		ColorDesc:    row.ColorDesc,
		Quantity:     row.Quantity,
	}
}

func (r *InspectionRepository) ListInspectionRows(ctx context.Context, orderCode string) ([]inspection.Row, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []inspectionRow
	if err := db.Table("inspection_orders AS i").
		Select(`i.order_code AS order_code,
			i.product AS product,
			i.status AS inspection_status,
			i.opened_at AS opened_at,
			i.modified_at AS modified_at,
			COALESCE(ua.username, CAST(i.opened_by AS TEXT)) AS opened_by,
			COALESCE(um.username, CAST(i.modified_by AS TEXT)) AS modified_by,
			l.phase_code AS phase_code,
			pf.description AS phase_desc,
			l.resource_code AS resource_code,
			pr.description AS resource_desc,
			l.status AS lot_status,
			c.color_code AS color_code,
			pc.description AS color_desc,
			c.total AS quantity,
			c.sample AS sample,
			c.status AS color_status`).
		Joins("LEFT JOIN users ua ON ua.user_id = i.opened_by").
		Joins("LEFT JOIN users um ON um.user_id = i.modified_by").
		Joins("INNER JOIN inspection_lots l ON l.inspection_id = i.inspection_id").
		Joins("INNER JOIN production_phases pf ON pf.phase_code = l.phase_code").
		Joins("INNER JOIN productive_resources pr ON pr.resource_code = l.resource_code").
		Joins("INNER JOIN inspection_colors c ON c.lot_id = l.lot_id").
		Joins("INNER JOIN product_colors pc ON pc.color_code = c.color_code AND pc.product = i.product").
		Where("i.order_code = ?", orderCode).
		Order("l.lot_id asc, c.color_id asc").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query inspection rows")
	}

	items := make([]inspection.Row, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *InspectionRepository) ListProductionOrderRows(ctx context.Context, orderCode string) ([]inspection.Row, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []productionOrderRow
	if err := db.Table("production_tasks AS t").
		Select(`t.order_code AS order_code,
			b.product AS product,
			t.phase_code AS phase_code,
			pf.description AS phase_desc,
			t.resource_code AS resource_code,
			pr.description AS resource_desc,
			b.color_code AS color_code,
			pc.description AS color_desc,
			b.quantity AS quantity`).
		Joins("INNER JOIN production_phases pf ON pf.phase_code = t.phase_code").
		Joins("INNER JOIN productive_resources pr ON pr.resource_code = t.resource_code").
		Joins("INNER JOIN production_task_balances b ON b.order_code = t.order_code AND b.task = t.task").
		Joins("INNER JOIN product_colors pc ON pc.product = b.product AND pc.color_code = b.color_code").
		Where("t.order_code = ? AND t.quantity_in_process > 0", orderCode).
		Order("t.task asc, b.color_code asc").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query production order rows")
	}

	items := make([]inspection.Row, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *InspectionRepository) GetInspection(ctx context.Context, orderCode string, forUpdate bool) (ports.InspectionHeader, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.InspectionHeader{}, err
	}

	query := db.Where("order_code = ?", orderCode)
	// sqlite has no row locks; its write transactions are already exclusive.
	if forUpdate && db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row model.InspectionOrder
	if err := query.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.InspectionHeader{}, inspection.ErrInspectionNotFound
		}
		return ports.InspectionHeader{}, errs.Wrap(err, "query inspection")
	}
	return mapHeader(row), nil
}

func (r *InspectionRepository) InspectionExists(ctx context.Context, orderCode string, product string) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.InspectionOrder{}).
		Where("order_code = ? AND product = ?", orderCode, product).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "count inspections")
	}
	return count > 0, nil
}

func (r *InspectionRepository) CountUnfinishedLots(ctx context.Context, inspectionID uint64) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.InspectionLot{}).
		Where("inspection_id = ? AND status <> ?", inspectionID, inspection.LotFinished).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count unfinished lots")
	}
	return count, nil
}

func (r *InspectionRepository) CreateInspection(ctx context.Context, input ports.InspectionCreate) (ports.InspectionHeader, error) {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return ports.InspectionHeader{}, err
		}

		header := model.InspectionOrder{
			OrderCode: input.OrderCode,
			Product:   input.Product,
			Status:    input.Status,
			OpenedAt:  input.OpenedAt,
			OpenedBy:  input.OpenedBy,
		}
		if err := db.Omit(clause.Associations).Create(&header).Error; err != nil {
			if isDuplicateKey(err) {
				return ports.InspectionHeader{}, errs.Wrapf(inspection.ErrInspectionExists, "insert inspection %q", input.OrderCode)
			}
			return ports.InspectionHeader{}, errs.Wrap(err, "insert inspection")
		}

		for _, lot := range input.Lots {
			lotRow := model.InspectionLot{
				InspectionID: header.InspectionID,
				PhaseCode:    lot.PhaseCode,
				ResourceCode: lot.ResourceCode,
				Total:        lot.Total,
				Status:       inspection.LotPending,
			}
			if err := db.Omit(clause.Associations).Create(&lotRow).Error; err != nil {
				return ports.InspectionHeader{}, errs.Wrapf(err, "insert lot %s/%s", lot.PhaseCode, lot.ResourceCode)
			}

			if len(lot.Colors) == 0 {
				continue
			}

			colorRows := make([]model.InspectionColor, 0, len(lot.Colors))
			for _, color := range lot.Colors {
				status := color.Status
				if strings.TrimSpace(status) == "" {
					status = inspection.ColorPending
				}
				colorRows = append(colorRows, model.InspectionColor{
					LotID:     lotRow.LotID,
					ColorCode: color.ColorCode,
					Total:     color.Total,
					Sample:    color.Sample,
					Status:    status,
				})
			}
			if err := db.Create(&colorRows).Error; err != nil {
				return ports.InspectionHeader{}, errs.Wrapf(err, "insert colors of lot %s/%s", lot.PhaseCode, lot.ResourceCode)
			}
		}

		return mapHeader(header), nil
	}

	var created ports.InspectionHeader
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := ports.WithTxContext(ctx, tx)
		header, err := r.CreateInspection(txCtx, input)
		if err != nil {
			return err
		}
		created = header
		return nil
	}); err != nil {
		return ports.InspectionHeader{}, err
	}
	return created, nil
}

func (r *InspectionRepository) DeleteInspection(ctx context.Context, orderCode string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	result := db.Where("order_code = ?", orderCode).Delete(&model.InspectionOrder{})
	if result.Error != nil {
		return 0, errs.Wrap(result.Error, "delete inspection")
	}
	return result.RowsAffected, nil
}

func (r *InspectionRepository) UpdateInspectionStatus(ctx context.Context, input ports.InspectionStatusUpdate) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.InspectionOrder{}).
		Where("inspection_id = ?", input.InspectionID).
		Updates(map[string]any{
			"status":      input.Status,
			"modified_at": input.ModifiedAt,
			"modified_by": input.ModifiedBy,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update inspection status")
	}
	if result.RowsAffected == 0 {
		return inspection.ErrInspectionNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}

func mapHeader(row model.InspectionOrder) ports.InspectionHeader {
	return ports.InspectionHeader{
		InspectionID: row.InspectionID,
		OrderCode:    row.OrderCode,
		Product:      row.Product,
		Status:       row.Status,
		OpenedAt:     row.OpenedAt,
		ModifiedAt:   row.ModifiedAt,
		OpenedBy:     row.OpenedBy,
		ModifiedBy:   row.ModifiedBy,
	}
}
