package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.StatusRepository = (*StatusRepository)(nil)

// StatusRepository is the durable, append-only status history store.
type StatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository wires the PostgreSQL status store.
func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// statusHistoryRecord maps one status history row. Rows are never updated or
// deleted; the newest timestamp per shipment defines the current status.
type statusHistoryRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ShipmentID int64     `gorm:"column:shipment_id;index:idx_status_history_shipment_ts"`
	Status     string    `gorm:"column:status;type:varchar(32)"`
	Comment    string    `gorm:"column:comment"`
	Timestamp  time.Time `gorm:"column:timestamp;autoCreateTime;index:idx_status_history_shipment_ts"`
	CreatedBy  int64     `gorm:"column:created_by"`
}

func (statusHistoryRecord) TableName() string { return "shipment_status_history" }

// statusHistoryRow adds the creator display name resolved by the users join.
type statusHistoryRow struct {
	statusHistoryRecord
	UserName string `gorm:"column:user_name"`
}

// CreateInitialStatus appends the "En espera" record a shipment is born with.
func (r *StatusRepository) CreateInitialStatus(ctx context.Context, shipmentID, userID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := statusHistoryRecord{
		ShipmentID: shipmentID,
		Status:     string(domain.StatusPending),
		Comment:    "Envío registrado en el sistema",
		CreatedBy:  userID,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// CreateStatus appends a status record.
func (r *StatusRepository) CreateStatus(ctx context.Context, record *domain.StatusRecord) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if record == nil {
		return errors.New("status record is nil")
	}
	row := statusHistoryRecord{
		ShipmentID: record.ShipmentID,
		Status:     string(record.Status),
		Comment:    record.Comment,
		CreatedBy:  record.CreatedBy,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// GetLatestStatus returns the newest record for the shipment, with the
// creator name denormalized from the users table.
func (r *StatusRepository) GetLatestStatus(ctx context.Context, shipmentID int64) (*domain.StatusRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row statusHistoryRow
	err := r.statusQuery(ctx).
		Where("ssh.shipment_id = ?", shipmentID).
		Order("ssh.timestamp DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, fmt.Errorf("%w: shipment %d", ports.ErrNoStatusHistory, shipmentID)
	}
	return row.toDomain(), nil
}

// GetStatusHistory returns all records for the shipment, newest first.
func (r *StatusRepository) GetStatusHistory(ctx context.Context, shipmentID int64) ([]*domain.StatusRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []statusHistoryRow
	err := r.statusQuery(ctx).
		Where("ssh.shipment_id = ?", shipmentID).
		Order("ssh.timestamp DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	history := make([]*domain.StatusRecord, 0, len(rows))
	for i := range rows {
		history = append(history, rows[i].toDomain())
	}
	return history, nil
}

func (r *StatusRepository) statusQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("shipment_status_history AS ssh").
		Select("ssh.*, CONCAT(u.first_name, ' ', u.last_name) AS user_name").
		Joins("LEFT JOIN users u ON u.id = ssh.created_by")
}

func (r *StatusRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres status repository not configured")
	}
	return nil
}

func (row statusHistoryRow) toDomain() *domain.StatusRecord {
	return &domain.StatusRecord{
		ID:         row.ID,
		ShipmentID: row.ShipmentID,
		Status:     domain.Status(row.Status),
		Comment:    row.Comment,
		Timestamp:  row.Timestamp,
		CreatedBy:  row.CreatedBy,
		UserName:   row.UserName,
	}
}
