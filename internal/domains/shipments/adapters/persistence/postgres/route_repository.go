package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/envioslab/shipment-api/internal/domains/shipments/domain"
	"github.com/envioslab/shipment-api/internal/domains/shipments/ports"
)

var _ ports.RouteRepository = (*RouteRepository)(nil)

// RouteRepository reads route reference data enriched with location names.
type RouteRepository struct {
	db *gorm.DB
}

// NewRouteRepository wires the PostgreSQL route store.
func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

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

type locationRecord struct {
	ID         int64  `gorm:"primaryKey;column:id"`
	Name       string `gorm:"column:name"`
	Department string `gorm:"column:department"`
}

func (locationRecord) TableName() string { return "locations" }

// routeRow joins the route with its resolved location names.
type routeRow struct {
	routeRecord
	OriginName            string `gorm:"column:origin_name"`
	OriginDepartment      string `gorm:"column:origin_department"`
	DestinationName       string `gorm:"column:destination_name"`
	DestinationDepartment string `gorm:"column:destination_department"`
}

// GetByID fetches a route with resolved locations.
func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row routeRow
	err := r.routeQuery(ctx).Where("r.id = ?", id).Limit(1).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, ports.ErrRouteNotFound
	}
	return row.toDomain(), nil
}

// List returns routes matching the filter, with resolved locations.
func (r *RouteRepository) List(ctx context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.routeQuery(ctx)
	if filter.OriginID > 0 {
		query = query.Where("r.origin_id = ?", filter.OriginID)
	}
	if filter.DestinationID > 0 {
		query = query.Where("r.destination_id = ?", filter.DestinationID)
	}
	var rows []routeRow
	if err := query.Order("o.name, d.name").Scan(&rows).Error; err != nil {
		return nil, err
	}
	routes := make([]*domain.Route, 0, len(rows))
	for i := range rows {
		routes = append(routes, rows[i].toDomain())
	}
	return routes, nil
}

func (r *RouteRepository) routeQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("routes AS r").
		Select(`r.*,
			o.name AS origin_name, o.department AS origin_department,
			d.name AS destination_name, d.department AS destination_department`).
		Joins("JOIN locations o ON o.id = r.origin_id").
		Joins("JOIN locations d ON d.id = r.destination_id")
}

func (r *RouteRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres route repository not configured")
	}
	return nil
}

func (row routeRow) toDomain() *domain.Route {
	return &domain.Route{
		ID:            row.ID,
		OriginID:      row.OriginID,
		DestinationID: row.DestinationID,
		EstimatedTime: row.EstimatedTime,
		DistanceKm:    row.DistanceKm,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Origin:        &domain.Location{ID: row.OriginID, Name: row.OriginName, Department: row.OriginDepartment},
		Destination:   &domain.Location{ID: row.DestinationID, Name: row.DestinationName, Department: row.DestinationDepartment},
	}
}
