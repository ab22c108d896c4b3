package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xelobcoder/listing/pkg/agent"
	"github.com/xelobcoder/listing/pkg/customerror"
)

type AgentRepositoryI interface {
	CreateTables(ctx context.Context) error
	List(ctx context.Context) ([]agent.Agent, error)
	Get(ctx context.Context, id string) (*agent.Agent, error)
	Insert(ctx context.Context, record *agent.Agent) (*agent.Agent, error)
	Delete(ctx context.Context, id string) error
}

type AgentRepository struct {
	Pool *pgxpool.Pool
	Host string
	Port string
}

func NewAgentRepository(pool *pgxpool.Pool, host string, port string) AgentRepositoryI {
	return &AgentRepository{
		Pool: pool,
		Host: host,
		Port: port,
	}
}

func (agentRepo *AgentRepository) CreateTables(ctx context.Context) error {
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_number TEXT NOT NULL,
		email TEXT NOT NULL,
		agency TEXT NOT NULL,
		license_number TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := agentRepo.Pool.Exec(ctx, createTableQuery)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "agentRepo.CreateTables", agentRepo.Host+":"+agentRepo.Port, err.Error())
	}
	return nil
}

func (agentRepo *AgentRepository) List(ctx context.Context) ([]agent.Agent, error) {
	query := `SELECT id, name, contact_number, email, agency, license_number, created_at
		FROM agents ORDER BY created_at DESC`
	rows, err := agentRepo.Pool.Query(ctx, query)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "agentRepo.List", agentRepo.Host+":"+agentRepo.Port, err.Error())
	}
	defer rows.Close()
	agents := []agent.Agent{}
	for rows.Next() {
		var record agent.Agent
		err := rows.Scan(&record.Id, &record.Name, &record.ContactNumber, &record.Email,
			&record.Agency, &record.LicenseNumber, &record.CreatedAt)
		if err != nil {
			return nil, customerror.NewError(customerror.ErrQuery, "agentRepo.List", agentRepo.Host+":"+agentRepo.Port, err.Error())
		}
		agents = append(agents, record)
	}
	if err := rows.Err(); err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "agentRepo.List", agentRepo.Host+":"+agentRepo.Port, err.Error())
	}
	return agents, nil
}

func (agentRepo *AgentRepository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	query := `SELECT id, name, contact_number, email, agency, license_number, created_at
		FROM agents WHERE id = $1`
	var record agent.Agent
	err := agentRepo.Pool.QueryRow(ctx, query, id).Scan(&record.Id, &record.Name,
		&record.ContactNumber, &record.Email, &record.Agency, &record.LicenseNumber, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, customerror.ErrNotFound
	}
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "agentRepo.Get", agentRepo.Host+":"+agentRepo.Port, err.Error())
	}
	return &record, nil
}

func (agentRepo *AgentRepository) Insert(ctx context.Context, record *agent.Agent) (*agent.Agent, error) {
	if problems := record.Validate(); len(problems) > 0 {
		return nil, customerror.ValidationError{Fields: problems}
	}
	record.Id = uuid.NewString()
	record.CreatedAt = time.Now().UTC()
	query := `INSERT INTO agents (id, name, contact_number, email, agency, license_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := agentRepo.Pool.Exec(ctx, query, record.Id, record.Name, record.ContactNumber,
		record.Email, record.Agency, record.LicenseNumber, record.CreatedAt)
	if err != nil {
		return nil, customerror.NewError(customerror.ErrQuery, "agentRepo.Insert", agentRepo.Host+":"+agentRepo.Port, err.Error())
	}
	return record, nil
}

func (agentRepo *AgentRepository) Delete(ctx context.Context, id string) error {
	command, err := agentRepo.Pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return customerror.NewError(customerror.ErrQuery, "agentRepo.Delete", agentRepo.Host+":"+agentRepo.Port, err.Error())
	}
	if command.RowsAffected() == 0 {
		return customerror.ErrNotFound
	}
	return nil
}
