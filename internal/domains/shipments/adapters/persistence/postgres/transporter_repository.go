package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.TransporterRepository = (*TransporterRepository)(nil)

// TransporterRepository persists transporters and runs the capacity ledger.
// Capacity mutations clamp inside SQL (GREATEST/LEAST) so concurrent updates
// cannot push available_capacity out of [0, capacity].
type TransporterRepository struct {
	db *gorm.DB
}

// NewTransporterRepository wires the PostgreSQL transporter store.
func NewTransporterRepository(db *gorm.DB) *TransporterRepository {
	return &TransporterRepository{db: db}
}

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

// GetByID fetches a transporter by identifier.
func (r *TransporterRepository) GetByID(ctx context.Context, id int64) (*domain.Transporter, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record transporterRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrTransporterNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all transporters ordered by name.
func (r *TransporterRepository) List(ctx context.Context) ([]*domain.Transporter, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []transporterRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	return toTransporters(records), nil
}

// GetAvailable returns available transporters with at least the given capacity.
func (r *TransporterRepository) GetAvailable(ctx context.Context, minCapacityGrams int64) ([]*domain.Transporter, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []transporterRecord
	err := r.db.WithContext(ctx).
		Where("available = true AND available_capacity >= ?", minCapacityGrams).
		Order("name").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toTransporters(records), nil
}

// UpdateAvailability sets the availability flag regardless of capacity.
func (r *TransporterRepository) UpdateAvailability(ctx context.Context, id int64, available bool) (*domain.Transporter, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&transporterRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"available":  available,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrTransporterNotFound
	}
	return r.GetByID(ctx, id)
}

// ReduceAvailableCapacity subtracts the weight, flooring at zero. Reaching
// exactly zero also flips the availability flag off.
func (r *TransporterRepository) ReduceAvailableCapacity(ctx context.Context, id int64, weightGrams int64) (*domain.Transporter, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&transporterRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"available_capacity": gorm.Expr("GREATEST(0, available_capacity - ?)", weightGrams),
			"updated_at":         gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrTransporterNotFound
	}
	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.AvailableCapacity == 0 && updated.Available {
		return r.UpdateAvailability(ctx, id, false)
	}
	return updated, nil
}

// RestoreAvailableCapacity returns weight to the transporter, capped at its
// total capacity, and always re-enables it.
func (r *TransporterRepository) RestoreAvailableCapacity(ctx context.Context, id int64, weightGrams int64) (*domain.Transporter, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&transporterRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"available_capacity": gorm.Expr("LEAST(capacity, available_capacity + ?)", weightGrams),
			"available":          true,
			"updated_at":         gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrTransporterNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TransporterRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres transporter repository not configured")
	}
	return nil
}

func toTransporters(records []transporterRecord) []*domain.Transporter {
	transporters := make([]*domain.Transporter, 0, len(records))
	for i := range records {
		transporters = append(transporters, records[i].toDomain())
	}
	return transporters
}

func (r transporterRecord) toDomain() *domain.Transporter {
	return &domain.Transporter{
		ID:                r.ID,
		Name:              r.Name,
		VehicleType:       r.VehicleType,
		CapacityGrams:     r.Capacity,
		AvailableCapacity: r.AvailableCapacity,
		Available:         r.Available,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
