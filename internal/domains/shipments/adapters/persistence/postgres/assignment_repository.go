package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

// AssignmentRepository persists shipment-route assignments. A partial unique
// index on (shipment_id) WHERE completed_at IS NULL closes the
// check-then-insert race: the second concurrent insert for the same shipment
// fails with a duplicate-key error.
type AssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository wires the PostgreSQL assignment store.
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

type assignmentRecord struct {
	ID            int64      `gorm:"primaryKey;column:id"`
	ShipmentID    int64      `gorm:"column:shipment_id;index"`
	RouteID       int64      `gorm:"column:route_id;index"`
	TransporterID *int64     `gorm:"column:transporter_id;index"`
	AdminID       int64      `gorm:"column:admin_id"`
	AssignedAt    time.Time  `gorm:"column:assigned_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
	Notes         string     `gorm:"column:notes"`
}

func (assignmentRecord) TableName() string { return "shipment_assignments" }

// Create inserts an assignment. A duplicate-key rejection from the pending
// partial index surfaces as ErrPendingAssignmentExists.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, errors.New("assignment is nil")
	}
	record := toAssignmentRecord(assignment)
	if record.AssignedAt.IsZero() {
		record.AssignedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrPendingAssignmentExists
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an assignment by identifier.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record assignmentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAssignmentNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByShipmentID returns a shipment's assignments, newest first.
func (r *AssignmentRepository) FindByShipmentID(ctx context.Context, shipmentID int64) ([]*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []assignmentRecord
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("assigned_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toAssignments(records), nil
}

// Filter returns assignments matching the optional criteria, newest first.
func (r *AssignmentRepository) Filter(ctx context.Context, filter ports.AssignmentFilter) ([]*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&assignmentRecord{})
	if filter.RouteID != nil {
		query = query.Where("route_id = ?", *filter.RouteID)
	}
	if filter.TransporterID != nil {
		query = query.Where("transporter_id = ?", *filter.TransporterID)
	}
	if filter.Completed != nil {
		if *filter.Completed {
			query = query.Where("completed_at IS NOT NULL")
		} else {
			query = query.Where("completed_at IS NULL")
		}
	}
	if filter.From != nil {
		query = query.Where("assigned_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("assigned_at <= ?", *filter.To)
	}
	var records []assignmentRecord
	if err := query.Order("assigned_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toAssignments(records), nil
}

// MarkCompleted stamps completed_at, freeing the shipment's pending slot.
func (r *AssignmentRepository) MarkCompleted(ctx context.Context, id int64) (*domain.Assignment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&assignmentRecord{}).
		Where("id = ?", id).
		UpdateColumn("completed_at", gorm.Expr("NOW()"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAssignmentNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AssignmentRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres assignment repository not configured")
	}
	return nil
}

func toAssignments(records []assignmentRecord) []*domain.Assignment {
	assignments := make([]*domain.Assignment, 0, len(records))
	for i := range records {
		assignments = append(assignments, records[i].toDomain())
	}
	return assignments
}

func toAssignmentRecord(a *domain.Assignment) assignmentRecord {
	return assignmentRecord{
		ID:            a.ID,
		ShipmentID:    a.ShipmentID,
		RouteID:       a.RouteID,
		TransporterID: a.TransporterID,
		AdminID:       a.AdminID,
		AssignedAt:    a.AssignedAt,
		CompletedAt:   a.CompletedAt,
		Notes:         a.Notes,
	}
}

func (r assignmentRecord) toDomain() *domain.Assignment {
	return &domain.Assignment{
		ID:            r.ID,
		ShipmentID:    r.ShipmentID,
		RouteID:       r.RouteID,
		TransporterID: r.TransporterID,
		AdminID:       r.AdminID,
		AssignedAt:    r.AssignedAt,
		CompletedAt:   r.CompletedAt,
		Notes:         r.Notes,
	}
}
