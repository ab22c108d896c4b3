package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xelobcoder/listing/pkg/category"
	"github.com/xelobcoder/listing/pkg/customerror"
)

type CategoryRepositoryI interface {
	CreateTables(ctx context.Context) error
	List(ctx context.Context) ([]category.Category, error)
	Insert(ctx context.Context, record *category.Category) (*category.Category, error)
}

type CategoryRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewCategoryRepository(pool *pgxpool.Pool, host string, port string) CategoryRepositoryI {
	return &CategoryRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (categoryRepo *CategoryRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS listing_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := categoryRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "categoryRepo.CreateTables", categoryRepo.Host+":"+categoryRepo.Port, err.Error())
	}
	return nil
}

func (categoryRepo *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	query := `SELECT id, name, description, icon, created_at FROM listing_categories ORDER BY name`
	rows, err := categoryRepo.Pool.Query(ctx, query)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "categoryRepo.List", categoryRepo.Host+":"+categoryRepo.Port, err.Error())
	}
	defer rows.Close()
	categories := []category.Category{}
	for rows.Next() {
		var record category.Category
		err := rows.Scan(&record.Id, &record.Name, &record.Description, &record.Icon, &record.CreatedAt)
		if err != nil {
			return nil, customerror.NewError(customerror.ErrQuery, "categoryRepo.List", categoryRepo.Host+":"+categoryRepo.Port, err.Error())
		}
		categories = append(categories, record)
	}
	if err := rows.Err(); err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "categoryRepo.List", categoryRepo.Host+":"+categoryRepo.Port, err.Error())
	}
	return categories, nil
}

func (categoryRepo *CategoryRepository) Insert(ctx context.Context, record *category.Category) (*category.Category, error) {
	if problems := record.Validate(); len(problems) > 0 {
		return nil, customerror.ValidationError{Fields: problems}
	}
	record.Id = uuid.NewString()
	record.CreatedAt = time.Now().UTC()
	query := `INSERT INTO listing_categories (id, name, description, icon, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := categoryRepo.Pool.Exec(ctx, query, record.Id, record.Name, record.Description,
		record.Icon, record.CreatedAt)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "categoryRepo.Insert", categoryRepo.Host+":"+categoryRepo.Port, err.Error())
	}
	return record, nil
}
