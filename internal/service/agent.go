package service

import (
	"context"
	"time"

	"github.com/xelobcoder/listing/internal/repository"
	"github.com/xelobcoder/listing/pkg/agent"
)

type AgentServiceI interface {
	List() ([]agent.Agent, error)
	Get(id string) (*agent.Agent, error)
	Create(record *agent.Agent) (*agent.Agent, error)
	Delete(id string) error
}

type AgentService struct {
	agentRepo repository.AgentRepositoryI
	host      string
	port      string
}

func NewAgentService(agentRepo repository.AgentRepositoryI, host string, port string) AgentServiceI {
	return &AgentService{
		agentRepo: agentRepo,
		host:      host,
		port:      port,
	}
}

func (agentService *AgentService) List() ([]agent.Agent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return agentService.agentRepo.List(ctx)
}

func (agentService *AgentService) Get(id string) (*agent.Agent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return agentService.agentRepo.Get(ctx, id)
}

func (agentService *AgentService) Create(record *agent.Agent) (*agent.Agent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return agentService.agentRepo.Insert(ctx, record)
}

func (agentService *AgentService) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return agentService.agentRepo.Delete(ctx, id)
}
