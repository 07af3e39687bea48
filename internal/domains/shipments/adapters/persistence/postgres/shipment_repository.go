package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.ShipmentRepository = (*ShipmentRepository)(nil)

// ShipmentRepository persists shipments in PostgreSQL using GORM.
type ShipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// shipmentRecord maps the shipment aggregate to a relational table.
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

// Create inserts a new shipment and returns the stored row.
func (r *ShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, errors.New("shipment is nil")
	}
	record := toShipmentRecord(shipment)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a shipment by identifier.
func (r *ShipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record shipmentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrShipmentNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByTrackingCode fetches a shipment by its public tracking code.
func (r *ShipmentRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record shipmentRecord
	if err := r.db.WithContext(ctx).First(&record, "tracking_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrShipmentNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByStatus returns shipments whose newest status record matches.
func (r *ShipmentRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []shipmentRecord
	err := r.db.WithContext(ctx).
		Where(`id IN (
			SELECT DISTINCT ON (shipment_id) shipment_id
			FROM shipment_status_history
			WHERE status = ?
			AND (shipment_id, timestamp) IN (
				SELECT shipment_id, MAX(timestamp)
				FROM shipment_status_history
				GROUP BY shipment_id
			)
		)`, string(status)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toShipments(records), nil
}

// List returns all shipments, newest first.
func (r *ShipmentRepository) List(ctx context.Context) ([]*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []shipmentRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toShipments(records), nil
}

func (r *ShipmentRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres shipment repository not configured")
	}
	return nil
}

func toShipments(records []shipmentRecord) []*domain.Shipment {
	shipments := make([]*domain.Shipment, 0, len(records))
	for i := range records {
		shipments = append(shipments, records[i].toDomain())
	}
	return shipments
}

func toShipmentRecord(s *domain.Shipment) shipmentRecord {
	return shipmentRecord{
		ID:                s.ID,
		UserID:            s.UserID,
		OriginID:          s.OriginID,
		DestinationID:     s.DestinationID,
		DestinationDetail: s.DestinationDetail,
		ProductTypeID:     s.ProductTypeID,
		WeightGrams:       s.WeightGrams,
		Dimensions:        s.Dimensions,
		RecipientName:     s.RecipientName,
		RecipientAddress:  s.RecipientAddress,
		RecipientPhone:    s.RecipientPhone,
		RecipientDocument: s.RecipientDocument,
		TrackingCode:      s.TrackingCode,
	}
}

func (r shipmentRecord) toDomain() *domain.Shipment {
	return &domain.Shipment{
		ID:                r.ID,
		UserID:            r.UserID,
		OriginID:          r.OriginID,
		DestinationID:     r.DestinationID,
		DestinationDetail: r.DestinationDetail,
		ProductTypeID:     r.ProductTypeID,
		WeightGrams:       r.WeightGrams,
		Dimensions:        r.Dimensions,
		RecipientName:     r.RecipientName,
		RecipientAddress:  r.RecipientAddress,
		RecipientPhone:    r.RecipientPhone,
		RecipientDocument: r.RecipientDocument,
		TrackingCode:      r.TrackingCode,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
