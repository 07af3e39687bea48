// Package migrations applies the relational schema for the bounded contexts.
package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&userRecord{},
		&locationRecord{},
		&routeRecord{},
		&transporterRecord{},
		&shipmentRecord{},
		&statusHistoryRecord{},
		&assignmentRecord{},
	); err != nil {
		return err
	}
	// One pending assignment per shipment. AutoMigrate cannot express a
	// partial index, so it is created directly.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_pending_shipment
		ON shipment_assignments (shipment_id) WHERE completed_at IS NULL`).Error
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	RoleID       int64     `gorm:"column:role_id"`
	Address      string    `gorm:"column:address"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Location reference data.
type locationRecord struct {
	ID         int64  `gorm:"primaryKey;column:id"`
	Name       string `gorm:"column:name"`
	Department string `gorm:"column:department"`
}

func (locationRecord) TableName() string { return "locations" }

// Route schema mirrors the shipments Postgres adapter.
type routeRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	OriginID      int64     `gorm:"column:origin_id;index"`
	DestinationID int64     `gorm:"column:destination_id;index"`
	EstimatedTime string    `gorm:"column:estimated_time"`
	DistanceKm    float64   `gorm:"column:distance_km"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (routeRecord) TableName() string { return "routes" }

// Transporter schema mirrors the shipments Postgres adapter.
type transporterRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	Name              string    `gorm:"column:name"`
	VehicleType       string    `gorm:"column:vehicle_type"`
	Capacity          int64     `gorm:"column:capacity"`
	AvailableCapacity int64     `gorm:"column:available_capacity"`
	Available         bool      `gorm:"column:available;index"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (transporterRecord) TableName() string { return "transporters" }

// Shipment schema mirrors the shipments Postgres adapter.
type shipmentRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	UserID            int64     `gorm:"column:user_id;index"`
	OriginID          int64     `gorm:"column:origin_id"`
	DestinationID     int64     `gorm:"column:destination_id"`
	DestinationDetail string    `gorm:"column:destination_detail"`
	ProductTypeID     int64     `gorm:"column:product_type_id"`
	WeightGrams       int64     `gorm:"column:weight_grams"`
	Dimensions        string    `gorm:"column:dimensions"`
	RecipientName     string    `gorm:"column:recipient_name"`
	RecipientAddress  string    `gorm:"column:recipient_address"`
	RecipientPhone    string    `gorm:"column:recipient_phone"`
	RecipientDocument string    `gorm:"column:recipient_document"`
	TrackingCode      string    `gorm:"column:tracking_code;type:varchar(16);uniqueIndex"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (shipmentRecord) TableName() string { return "shipments" }

// Status history schema mirrors the shipments Postgres adapter.
type statusHistoryRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ShipmentID int64     `gorm:"column:shipment_id;index:idx_status_history_shipment_ts"`
	Status     string    `gorm:"column:status;type:varchar(32)"`
	Comment    string    `gorm:"column:comment"`
	Timestamp  time.Time `gorm:"column:timestamp;index:idx_status_history_shipment_ts;autoCreateTime"`
	CreatedBy  int64     `gorm:"column:created_by"`
}

func (statusHistoryRecord) TableName() string { return "shipment_status_history" }

// Assignment schema mirrors the shipments Postgres adapter.
type assignmentRecord struct {
	ID            int64      `gorm:"primaryKey;column:id"`
	ShipmentID    int64      `gorm:"column:shipment_id;index"`
	RouteID       int64      `gorm:"column:route_id;index"`
	TransporterID *int64     `gorm:"column:transporter_id;index"`
	AdminID       int64      `gorm:"column:admin_id"`
	AssignedAt    time.Time  `gorm:"column:assigned_at;index"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
	Notes         string     `gorm:"column:notes"`
}

func (assignmentRecord) TableName() string { return "shipment_assignments" }
