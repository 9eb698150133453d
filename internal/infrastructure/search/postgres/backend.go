// Package postgres implements the property search backend on PostgreSQL
// with pgvector for semantic ranking.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/plotari/chat-service/internal/core/search"
	"github.com/plotari/chat-service/internal/domain/models"
)

const similarProperties = 3

// Config holds PostgreSQL connection configuration.
type Config struct {
	DSN          string
	MaxConns     int
	MaxIdleConns int
}

// Backend implements search.Backend and search.Analytics on PostgreSQL.
type Backend struct {
	db *sqlx.DB
}

// NewBackend connects to PostgreSQL and verifies the connection.
func NewBackend(config *Config) (*Backend, error) {
	if config == nil || config.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	// Disable prepared statement caching to avoid "unnamed prepared
	// statement does not exist" errors behind connection poolers.
	dsn := config.DSN
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(config.MaxConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Backend{db: db}, nil
}

// propertyRow maps the properties table. Nullable columns use pointers so
// missing attributes stay absent in the domain model.
type propertyRow struct {
	ZPID         string         `db:"zpid"`
	Address      string         `db:"address"`
	City         string         `db:"city"`
	State        string         `db:"state"`
	Zipcode      string         `db:"zipcode"`
	Price        *float64       `db:"price"`
	Bedrooms     *float64       `db:"bedrooms"`
	Bathrooms    *float64       `db:"bathrooms"`
	LivingArea   *float64       `db:"living_area"`
	YearBuilt    *int           `db:"year_built"`
	LotSize      *float64       `db:"lot_size"`
	Description  sql.NullString `db:"description"`
	Features     pq.StringArray `db:"features"`
	Neighborhood sql.NullString `db:"neighborhood"`
	PropertyType sql.NullString `db:"property_type"`
	Latitude     float64        `db:"latitude"`
	Longitude    float64        `db:"longitude"`
}

func (r *propertyRow) toModel() models.Property {
	return models.Property{
		ZPID:         r.ZPID,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Zipcode:      r.Zipcode,
		Price:        r.Price,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		LivingArea:   r.LivingArea,
		YearBuilt:    r.YearBuilt,
		LotSize:      r.LotSize,
		Description:  r.Description.String,
		Features:     r.Features,
		Neighborhood: r.Neighborhood.String,
		PropertyType: r.PropertyType.String,
		Geo: models.GeoCoordinate{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
	}
}

const propertyColumns = `
	zpid, address, city, state, zipcode, price, bedrooms, bathrooms,
	living_area, year_built, lot_size, description, features,
	neighborhood, property_type, latitude, longitude`

// haversineExpr computes the great-circle distance in meters between a row
// and the given lat/lon placeholders.
func haversineExpr(latArg, lonArg int) string {
	return fmt.Sprintf(
		"(6371000 * acos(least(1.0, cos(radians($%d)) * cos(radians(latitude)) * cos(radians(longitude) - radians($%d)) + sin(radians($%d)) * sin(radians(latitude)))))",
		latArg, lonArg, latArg)
}

// SearchProperties runs a filtered property search. Ranking prefers the
// query embedding when present, then full-text rank, then price.
func (b *Backend) SearchProperties(ctx context.Context, q search.PropertyQuery) ([]models.Property, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	addFilter := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIndex))
		args = append(args, value)
		argIndex++
	}

	if q.City != "" {
		addFilter("city ILIKE $%d", q.City)
	}
	if q.State != "" {
		addFilter("state ILIKE $%d", q.State)
	}
	if q.Neighborhood != "" {
		addFilter("neighborhood ILIKE $%d", "%"+q.Neighborhood+"%")
	}
	if q.PropertyType != "" {
		addFilter("property_type ILIKE $%d", "%"+q.PropertyType+"%")
	}
	if q.MinPrice != nil {
		addFilter("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		addFilter("price <= $%d", *q.MaxPrice)
	}
	if q.MinBedrooms != nil {
		addFilter("bedrooms >= $%d", *q.MinBedrooms)
	}
	if q.MaxBedrooms != nil {
		addFilter("bedrooms <= $%d", *q.MaxBedrooms)
	}
	if q.MinBathrooms != nil {
		addFilter("bathrooms >= $%d", *q.MinBathrooms)
	}
	if q.MaxBathrooms != nil {
		addFilter("bathrooms <= $%d", *q.MaxBathrooms)
	}

	if q.Latitude != nil && q.Longitude != nil && q.RadiusM != nil {
		latArg, lonArg := argIndex, argIndex+1
		args = append(args, *q.Latitude, *q.Longitude)
		argIndex += 2
		whereClauses = append(whereClauses,
			fmt.Sprintf("%s <= $%d", haversineExpr(latArg, lonArg), argIndex))
		args = append(args, *q.RadiusM)
		argIndex++
	}

	orderBy := "price ASC NULLS LAST"
	switch {
	case len(q.Embedding) > 0:
		orderBy = fmt.Sprintf("embedding <=> $%d NULLS LAST", argIndex)
		args = append(args, pgvector.NewVector(q.Embedding))
		argIndex++
	case q.Query != "":
		orderBy = fmt.Sprintf("ts_rank(search_vector, plainto_tsquery('english', $%d)) DESC", argIndex)
		args = append(args, q.Query)
		argIndex++
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}

	query := fmt.Sprintf(`SELECT %s FROM properties WHERE %s ORDER BY %s LIMIT $%d`,
		propertyColumns, strings.Join(whereClauses, " AND "), orderBy, argIndex)
	args = append(args, limit)

	var rows []propertyRow
	if err := b.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}

	properties := make([]models.Property, 0, len(rows))
	for i := range rows {
		properties = append(properties, rows[i].toModel())
	}
	return properties, nil
}

// GetPropertyDetail fetches a property and its most similar listings.
// Similarity uses the stored embedding, falling back to same-city ordering
// when the row has none.
func (b *Backend) GetPropertyDetail(ctx context.Context, propertyID string) (*models.PropertyDetail, error) {
	var row propertyRow
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE zpid = $1`, propertyColumns)
	err := b.db.GetContext(ctx, &row, query, propertyID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", propertyID, err)
	}

	similarQuery := fmt.Sprintf(`
		SELECT %s FROM properties
		WHERE zpid <> $1 AND city = $2
		ORDER BY embedding <=> (SELECT embedding FROM properties WHERE zpid = $1) NULLS LAST,
			abs(coalesce(price, 0) - coalesce($3, 0)) ASC
		LIMIT %d`, propertyColumns, similarProperties)

	var similarRows []propertyRow
	if err := b.db.SelectContext(ctx, &similarRows, similarQuery, propertyID, row.City, row.Price); err != nil {
		return nil, fmt.Errorf("failed to get similar properties for %s: %w", propertyID, err)
	}

	detail := &models.PropertyDetail{Property: row.toModel()}
	for i := range similarRows {
		detail.Similar = append(detail.Similar, similarRows[i].toModel())
	}
	return detail, nil
}

// poiRow maps the pois table.
type poiRow struct {
	Name      string         `db:"name"`
	Category  string         `db:"category"`
	Rating    *float64       `db:"rating"`
	Source    sql.NullString `db:"source"`
	Latitude  float64        `db:"latitude"`
	Longitude float64        `db:"longitude"`
}

func (r *poiRow) toModel() models.POI {
	return models.POI{
		Name:     r.Name,
		Category: r.Category,
		Rating:   r.Rating,
		Source:   r.Source.String,
		Geo: models.GeoCoordinate{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
	}
}

// SearchPOIs returns points of interest around a property, nearest first.
func (b *Backend) SearchPOIs(ctx context.Context, q search.POIQuery) ([]models.POI, error) {
	var geo struct {
		Latitude  float64 `db:"latitude"`
		Longitude float64 `db:"longitude"`
	}
	err := b.db.GetContext(ctx, &geo,
		`SELECT latitude, longitude FROM properties WHERE zpid = $1`, q.PropertyID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("property %s not found", q.PropertyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to locate property %s: %w", q.PropertyID, err)
	}

	radius := q.RadiusM
	if radius <= 0 {
		radius = models.DefaultPOIRadius
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	whereClauses := []string{fmt.Sprintf("%s <= $3", haversineExpr(1, 2))}
	args := []interface{}{geo.Latitude, geo.Longitude, radius}
	if q.Category != "" {
		whereClauses = append(whereClauses, "category = $4")
		args = append(args, q.Category)
	}

	query := fmt.Sprintf(`
		SELECT name, category, rating, source, latitude, longitude
		FROM pois
		WHERE %s
		ORDER BY %s ASC
		LIMIT %d`, strings.Join(whereClauses, " AND "), haversineExpr(1, 2), limit)

	var rows []poiRow
	if err := b.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search pois: %w", err)
	}

	pois := make([]models.POI, 0, len(rows))
	for i := range rows {
		pois = append(pois, rows[i].toModel())
	}
	return pois, nil
}

// CompareProperties fetches all requested properties and builds a
// comparison. Fails when any requested id is missing so the caller never
// presents a partial comparison as complete.
func (b *Backend) CompareProperties(ctx context.Context, propertyIDs []string) (*models.PropertyComparison, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE zpid = ANY($1)`, propertyColumns)

	var rows []propertyRow
	if err := b.db.SelectContext(ctx, &rows, query, pq.Array(propertyIDs)); err != nil {
		return nil, fmt.Errorf("failed to fetch properties for comparison: %w", err)
	}

	byID := make(map[string]models.Property, len(rows))
	for i := range rows {
		byID[rows[i].ZPID] = rows[i].toModel()
	}

	// Preserve the requested order and reject missing ids.
	properties := make([]models.Property, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("property %s not found", id)
		}
		properties = append(properties, p)
	}

	return models.NewPropertyComparison(properties), nil
}

// GetPOIsByCategory lists POIs of a category, best rated first.
func (b *Backend) GetPOIsByCategory(ctx context.Context, category string, limit int) ([]models.POI, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []poiRow
	query := `
		SELECT name, category, rating, source, latitude, longitude
		FROM pois
		WHERE category = $1
		ORDER BY rating DESC NULLS LAST
		LIMIT $2`
	if err := b.db.SelectContext(ctx, &rows, query, category, limit); err != nil {
		return nil, fmt.Errorf("failed to get pois by category: %w", err)
	}

	pois := make([]models.POI, 0, len(rows))
	for i := range rows {
		pois = append(pois, rows[i].toModel())
	}
	return pois, nil
}

// SavePOIs upserts enrichment-provided POIs, keyed by location and name.
func (b *Backend) SavePOIs(ctx context.Context, pois []models.POI) (int, error) {
	if len(pois) == 0 {
		return 0, nil
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO pois (name, category, rating, source, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (latitude, longitude, name)
		DO UPDATE SET category = EXCLUDED.category, rating = EXCLUDED.rating, source = EXCLUDED.source`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare poi upsert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, poi := range pois {
		if _, err := stmt.ExecContext(ctx, poi.Name, poi.Category, poi.Rating, poi.Source,
			poi.Geo.Latitude, poi.Geo.Longitude); err != nil {
			return saved, fmt.Errorf("failed to upsert poi %q: %w", poi.Name, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit poi upsert: %w", err)
	}
	return saved, nil
}

// Ping verifies the database connection.
func (b *Backend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}
