package model

// InspectionOrder is the inspection header. One per production order.
type InspectionOrder struct {
	InspectionID uint64          `gorm:"column:inspection_id;primaryKey;autoIncrement"`
	OrderCode    string          `gorm:"column:order_code;type:varchar(20);not null;uniqueIndex:ux_inspection_orders_order_code"`
	Product      string          `gorm:"column:product;type:varchar(20);not null"`
	Status       string          `gorm:"column:status;type:varchar(10);not null"`
	OpenedAt     string          `gorm:"column:opened_at;type:varchar(40);not null"`
	ModifiedAt   *string         `gorm:"column:modified_at;type:varchar(40)"`
	OpenedBy     uint64          `gorm:"column:opened_by;not null;index"`
	ModifiedBy   *uint64         `gorm:"column:modified_by"`
	Lots         []InspectionLot `gorm:"foreignKey:InspectionID;references:InspectionID;constraint:OnDelete:CASCADE"`
}

func (InspectionOrder) TableName() string {
	return "inspection_orders"
}

type InspectionLot struct {
	LotID        uint64            `gorm:"column:lot_id;primaryKey;autoIncrement"`
	InspectionID uint64            `gorm:"column:inspection_id;not null;uniqueIndex:ux_inspection_lots_key,priority:1"`
	PhaseCode    string            `gorm:"column:phase_code;type:varchar(10);not null;uniqueIndex:ux_inspection_lots_key,priority:2"`
	ResourceCode string            `gorm:"column:resource_code;type:varchar(10);not null;uniqueIndex:ux_inspection_lots_key,priority:3"`
	Total        int               `gorm:"column:total;not null"`
	Status       string            `gorm:"column:status;type:varchar(10);not null"`
	Colors       []InspectionColor `gorm:"foreignKey:LotID;references:LotID;constraint:OnDelete:CASCADE"`
}

func (InspectionLot) TableName() string {
	return "inspection_lots"
}

// InspectionColor is one color batch of a lot. A lot fed by several planning
// tasks may hold more than one batch of the same color.
type InspectionColor struct {
	ColorID   uint64 `gorm:"column:color_id;primaryKey;autoIncrement"`
	LotID     uint64 `gorm:"column:lot_id;not null;index:ix_inspection_colors_lot"`
	ColorCode string `gorm:"column:color_code;type:varchar(10);not null"`
	Total     int    `gorm:"column:total;not null"`
	Sample    int    `gorm:"column:sample;not null"`
	Status    string `gorm:"column:status;type:varchar(10);not null"`
}

func (InspectionColor) TableName() string {
	return "inspection_colors"
}

// InspectionModels lists the tables owned by this service, parents first.
func InspectionModels() []any {
	return []any{
		&InspectionOrder{},
		&InspectionLot{},
		&InspectionColor{},
	}
}
