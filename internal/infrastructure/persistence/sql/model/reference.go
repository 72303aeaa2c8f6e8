package model

// Planning and catalog tables are owned by the ERP and the auth service.
// They are only migrated here for local environments and tests.

type ProductionTask struct {
	OrderCode         string `gorm:"column:order_code;type:varchar(20);primaryKey"`
	Task              int    `gorm:"column:task;primaryKey;autoIncrement:false"`
	PhaseCode         string `gorm:"column:phase_code;type:varchar(10);not null"`
	ResourceCode      string `gorm:"column:resource_code;type:varchar(10);not null"`
	QuantityInProcess int    `gorm:"column:quantity_in_process;not null;default:0"`
}

func (ProductionTask) TableName() string {
	return "production_tasks"
}

type ProductionTaskBalance struct {
	OrderCode string `gorm:"column:order_code;type:varchar(20);primaryKey"`
	Task      int    `gorm:"column:task;primaryKey;autoIncrement:false"`
	ColorCode string `gorm:"column:color_code;type:varchar(10);primaryKey"`
	Product   string `gorm:"column:product;type:varchar(20);not null"`
	Quantity  int    `gorm:"column:quantity;not null;default:0"`
}

func (ProductionTaskBalance) TableName() string {
	return "production_task_balances"
}

type ProductionPhase struct {
	PhaseCode   string `gorm:"column:phase_code;type:varchar(10);primaryKey"`
	Description string `gorm:"column:description;type:varchar(40);not null"`
}

func (ProductionPhase) TableName() string {
	return "production_phases"
}

type ProductiveResource struct {
	ResourceCode string `gorm:"column:resource_code;type:varchar(10);primaryKey"`
	Description  string `gorm:"column:description;type:varchar(40);not null"`
}

func (ProductiveResource) TableName() string {
	return "productive_resources"
}

type ProductColor struct {
	Product     string `gorm:"column:product;type:varchar(20);primaryKey"`
	ColorCode   string `gorm:"column:color_code;type:varchar(10);primaryKey"`
	Description string `gorm:"column:description;type:varchar(40);not null"`
}

func (ProductColor) TableName() string {
	return "product_colors"
}

type User struct {
	UserID   uint64 `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username string `gorm:"column:username;type:varchar(150);not null;uniqueIndex"`
}

func (User) TableName() string {
	return "users"
}

func ReferenceModels() []any {
	return []any{
		&ProductionPhase{},
		&ProductiveResource{},
		&ProductColor{},
		&ProductionTask{},
		&ProductionTaskBalance{},
		&User{},
	}
}
