package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xelobcoder/listing/pkg/customerror"
	"github.com/xelobcoder/listing/pkg/property"
)

type PropertyRepositoryI interface {
	CreateTables(ctx context.Context) error
	Search(ctx context.Context, filter property.Filter, page int, count int) ([]property.Property, int, error)
	Get(ctx context.Context, id string) (*property.Property, error)
	Insert(ctx context.Context, record *property.Property) (*property.Property, error)
	Update(ctx context.Context, id string, record *property.Property) (*property.Property, error)
	Delete(ctx context.Context, id string) error
	SetImageUrls(ctx context.Context, id string, imageUrls []string) error
	Stats(ctx context.Context) (*property.Stats, error)
}

type PropertyRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewPropertyRepository(pool *pgxpool.Pool, host string, port string) PropertyRepositoryI {
	return &PropertyRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

const propertyColumns = `id, title, description, price, property_type, bedrooms, bathrooms,
	square_feet, lot_size, year_built, status, address, city, state, postal_code, country,
	latitude, longitude, has_garage, has_pool, has_basement, has_fireplace, parking_spaces,
	heating_type, cooling_type, image_urls, video_url, floor_plans, agent_id, created_at, updated_at`

func (propertyRepo *PropertyRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL,
		property_type TEXT NOT NULL,
		bedrooms INTEGER NOT NULL DEFAULT 0,
		bathrooms INTEGER NOT NULL DEFAULT 0,
		square_feet INTEGER NOT NULL DEFAULT 0,
		lot_size INTEGER NOT NULL DEFAULT 0,
		year_built INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'PENDING',
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		country TEXT NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		has_garage BOOLEAN NOT NULL DEFAULT FALSE,
		has_pool BOOLEAN NOT NULL DEFAULT FALSE,
		has_basement BOOLEAN NOT NULL DEFAULT FALSE,
		has_fireplace BOOLEAN NOT NULL DEFAULT FALSE,
		parking_spaces INTEGER NOT NULL DEFAULT 0,
		heating_type TEXT NOT NULL DEFAULT 'NONE',
		cooling_type TEXT NOT NULL DEFAULT 'NONE',
		image_urls JSONB NOT NULL DEFAULT '[]',
		video_url TEXT NOT NULL DEFAULT '',
		floor_plans JSONB NOT NULL DEFAULT '[]',
		agent_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := propertyRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "propertyRepo.CreateTables", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}

	indexQueries := []string{
		`CREATE INDEX IF NOT EXISTS properties_property_type_idx ON properties(property_type);`,
		`CREATE INDEX IF NOT EXISTS properties_city_idx ON properties(city);`,
		`CREATE INDEX IF NOT EXISTS properties_status_idx ON properties(status);`,
		`CREATE INDEX IF NOT EXISTS properties_agent_id_idx ON properties(agent_id);`,
	}
	for _, indexQuery := range indexQueries {
		_, err = propertyRepo.Pool.Exec(ctx, indexQuery)
		if err != nil {
			return customerror.NewError(customerror.ErrQuery, "propertyRepo.CreateTables", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
		}
	}
	return nil
}

// buildSearchWhere turns the filter into a conjunctive WHERE tail with
// numbered params, starting at $1.
func buildSearchWhere(filter property.Filter) (string, []any) {
	clause := ""
	params := []any{}
	n := 1
	if filter.PropertyType != "" {
		clause += fmt.Sprintf(" AND property_type = $%d", n)
		params = append(params, filter.PropertyType)
		n++
	}
	if filter.MinPrice != nil {
		clause += fmt.Sprintf(" AND price >= $%d", n)
		params = append(params, *filter.MinPrice)
		n++
	}
	if filter.MaxPrice != nil {
		clause += fmt.Sprintf(" AND price <= $%d", n)
		params = append(params, *filter.MaxPrice)
		n++
	}
	if filter.City != "" {
		clause += fmt.Sprintf(" AND city ILIKE $%d", n)
		params = append(params, "%"+filter.City+"%")
		n++
	}
	return clause, params
}

// Search returns the requested page ordered newest first, plus the total row
// count for the filter independent of paging.
func (propertyRepo *PropertyRepository) Search(ctx context.Context, filter property.Filter, page int, count int) ([]property.Property, int, error) {
	clause, params := buildSearchWhere(filter)

	countQuery := `SELECT COUNT(*) FROM properties WHERE TRUE` + clause
	var total int
	if err := propertyRepo.Pool.QueryRow(ctx, countQuery, params...).Scan(&total); err != nil {
		return nil, 0, customerror.NewError(customerror.ErrQuery, "propertyRepo.Search", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}

	offset := (page - 1) * count
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE TRUE` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC OFFSET $%d LIMIT $%d`, len(params)+1, len(params)+2)
	params = append(params, offset, count)

	rows, err := propertyRepo.Pool.Query(ctx, query, params...)
	if err != nil {
		return nil, 0, customerror.NewError(customerror.ErrQuery, "propertyRepo.Search", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	defer rows.Close()

	properties := []property.Property{}
	for rows.Next() {
		record, err := propertyRepo.scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		properties = append(properties, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, customerror.NewError(customerror.ErrQuery, "propertyRepo.Search", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return properties, total, nil
}

func (propertyRepo *PropertyRepository) Get(ctx context.Context, id string) (*property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	rows, err := propertyRepo.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "propertyRepo.Get", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, customerror.NewError(customerror.ErrQuery, "propertyRepo.Get", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
		}
		return nil, customerror.ErrNotFound
	}
	return propertyRepo.scanProperty(rows)
}

func (propertyRepo *PropertyRepository) Insert(ctx context.Context, record *property.Property) (*property.Property, error) {
	record.ApplyDefaults()
	if problems := record.Validate(); len(problems) > 0 {
		return nil, customerror.ValidationError{Fields: problems}
	}
	record.Id = uuid.NewString()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	imageUrls, err := encodeRefs(record.ImageUrls)
	if err != nil {
		return nil, err
	}
	floorPlans, err := encodeRefs(record.FloorPlans)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO properties (` + propertyColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	_, err = propertyRepo.Pool.Exec(ctx, query,
		record.Id, record.Title, record.Description, record.Price, record.PropertyType,
		record.Bedrooms, record.Bathrooms, record.SquareFeet, record.LotSize, record.YearBuilt,
		record.Status, record.Address, record.City, record.State, record.PostalCode, record.Country,
		record.Latitude, record.Longitude, record.HasGarage, record.HasPool, record.HasBasement,
		record.HasFireplace, record.ParkingSpaces, record.HeatingType, record.CoolingType,
		imageUrls, record.VideoUrl, floorPlans, record.AgentId, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "propertyRepo.Insert", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return record, nil
}

func (propertyRepo *PropertyRepository) Update(ctx context.Context, id string, record *property.Property) (*property.Property, error) {
	record.ApplyDefaults()
	if problems := record.Validate(); len(problems) > 0 {
		return nil, customerror.ValidationError{Fields: problems}
	}
	imageUrls, err := encodeRefs(record.ImageUrls)
	if err != nil {
		return nil, err
	}
	floorPlans, err := encodeRefs(record.FloorPlans)
	if err != nil {
		return nil, err
	}

	query := `UPDATE properties SET title = $1, description = $2, price = $3, property_type = $4,
		bedrooms = $5, bathrooms = $6, square_feet = $7, lot_size = $8, year_built = $9, status = $10,
		address = $11, city = $12, state = $13, postal_code = $14, country = $15, latitude = $16,
		longitude = $17, has_garage = $18, has_pool = $19, has_basement = $20, has_fireplace = $21,
		parking_spaces = $22, heating_type = $23, cooling_type = $24, image_urls = $25, video_url = $26,
		floor_plans = $27, agent_id = $28, updated_at = $29 WHERE id = $30`
	command, err := propertyRepo.Pool.Exec(ctx, query,
		record.Title, record.Description, record.Price, record.PropertyType,
		record.Bedrooms, record.Bathrooms, record.SquareFeet, record.LotSize, record.YearBuilt, record.Status,
		record.Address, record.City, record.State, record.PostalCode, record.Country, record.Latitude,
		record.Longitude, record.HasGarage, record.HasPool, record.HasBasement, record.HasFireplace,
		record.ParkingSpaces, record.HeatingType, record.CoolingType, imageUrls, record.VideoUrl,
		floorPlans, record.AgentId, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "propertyRepo.Update", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return nil, customerror.ErrNotFound
	}
	return propertyRepo.Get(ctx, id)
}

// Delete signals NotFound when no row matched so callers get confirmation of
// prior existence.
func (propertyRepo *PropertyRepository) Delete(ctx context.Context, id string) error {
	command, err := propertyRepo.Pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "propertyRepo.Delete", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}

func (propertyRepo *PropertyRepository) SetImageUrls(ctx context.Context, id string, imageUrls []string) error {
	encoded, err := encodeRefs(imageUrls)
	if err != nil {
		return err
	}
	command, err := propertyRepo.Pool.Exec(ctx,
		`UPDATE properties SET image_urls = $1, updated_at = $2 WHERE id = $3`,
		encoded, time.Now().UTC(), id)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "propertyRepo.SetImageUrls", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}

func (propertyRepo *PropertyRepository) Stats(ctx context.Context) (*property.Stats, error) {
	stats := &property.Stats{
		ByType:   map[string]int{},
		ByStatus: map[string]int{},
	}
	if err := propertyRepo.groupCount(ctx, `SELECT property_type, COUNT(*) FROM properties GROUP BY property_type`, stats.ByType); err != nil {
		return nil, err
	}
	if err := propertyRepo.groupCount(ctx, `SELECT status, COUNT(*) FROM properties GROUP BY status`, stats.ByStatus); err != nil {
		return nil, err
	}
	return stats, nil
}

func (propertyRepo *PropertyRepository) groupCount(ctx context.Context, query string, into map[string]int) error {
	rows, err := propertyRepo.Pool.Query(ctx, query)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "propertyRepo.groupCount", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var total int
		if err := rows.Scan(&key, &total); err != nil {
			return customerror.NewError(customerror.ErrQuery, "propertyRepo.groupCount", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
		}
		into[key] = total
	}
	if err := rows.Err(); err != nil {
		return customerror.NewError(customerror.ErrQuery, "propertyRepo.groupCount", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	return nil
}

func (propertyRepo *PropertyRepository) scanProperty(rows pgx.Rows) (*property.Property, error) {
	var record property.Property
	var imageUrlsRaw, floorPlansRaw []byte
	err := rows.Scan(
		&record.Id, &record.Title, &record.Description, &record.Price, &record.PropertyType,
		&record.Bedrooms, &record.Bathrooms, &record.SquareFeet, &record.LotSize, &record.YearBuilt,
		&record.Status, &record.Address, &record.City, &record.State, &record.PostalCode, &record.Country,
		&record.Latitude, &record.Longitude, &record.HasGarage, &record.HasPool, &record.HasBasement,
		&record.HasFireplace, &record.ParkingSpaces, &record.HeatingType, &record.CoolingType,
		&imageUrlsRaw, &record.VideoUrl, &floorPlansRaw, &record.AgentId, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customerror.ErrNotFound
		}
		return nil, customerror.NewError(customerror.ErrQuery, "propertyRepo.scanProperty", propertyRepo.Host+":"+propertyRepo.Port, err.Error())
	}
	record.ImageUrls, err = decodeRefs(imageUrlsRaw, "image_urls")
	if err != nil {
		return nil, err
	}
	record.FloorPlans, err = decodeRefs(floorPlansRaw, "floor_plans")
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// encodeRefs marshals an ordered reference list for a JSON column. The input
// is always a typed slice, so a non-array payload can never be persisted.
func encodeRefs(refs []string) (string, error) {
	if refs == nil {
		refs = []string{}
	}
	encoded, err := json.Marshal(refs)
	if err != nil {
		return "", customerror.NewError(customerror.ErrSerialization, "repository.encodeRefs", "", err.Error())
	}
	return string(encoded), nil
}

// decodeRefs parses a stored JSON list column. Malformed payloads fail fast
// instead of being coerced.
func decodeRefs(raw []byte, column string) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	refs := []string{}
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, customerror.NewError(customerror.ErrSerialization, "repository.decodeRefs", "", column+": "+err.Error())
	}
	return refs, nil
}
