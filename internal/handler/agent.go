package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xelobcoder/listing/internal/service"
	"github.com/xelobcoder/listing/pkg/agent"
	"github.com/xelobcoder/listing/pkg/customerror"
	"go.uber.org/zap"
)

type AgentHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	ListAgents(ctx *gin.Context)
	GetAgent(ctx *gin.Context)
	CreateAgent(ctx *gin.Context)
	DeleteAgent(ctx *gin.Context)
}

type AgentHandler struct {
	agentService service.AgentServiceI
	logger       *zap.SugaredLogger
}

func NewAgentHandler(agentService service.AgentServiceI, logger *zap.SugaredLogger) AgentHandlerI {
	return &AgentHandler{
		agentService: agentService,
		logger:       logger,
	}
}

func (agentHandler *AgentHandler) RegisterRoutes(group *gin.RouterGroup) {
	agentGroup := group.Group("/agents")
	agentGroup.GET("", agentHandler.ListAgents)
	agentGroup.POST("", agentHandler.CreateAgent)
	agentGroup.GET("/:id", agentHandler.GetAgent)
	agentGroup.DELETE("/:id", agentHandler.DeleteAgent)
}

func (agentHandler *AgentHandler) ListAgents(ctx *gin.Context) {
	agents, err := agentHandler.agentService.List()
	if err != nil {
		agentHandler.logger.Errorw("list agents failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch agents",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (agentHandler *AgentHandler) GetAgent(ctx *gin.Context) {
	record, err := agentHandler.agentService.Get(ctx.Param("id"))
	if errors.Is(err, customerror.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Agent not found",
		})
		return
	}
	if err != nil {
		agentHandler.logger.Errorw("get agent failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch agent",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"agent": record})
}

func (agentHandler *AgentHandler) CreateAgent(ctx *gin.Context) {
	var record agent.Agent
	if err := ctx.ShouldBindBodyWithJSON(&record); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid data",
		})
		return
	}
	created, err := agentHandler.agentService.Create(&record)
	if errors.Is(err, customerror.ErrValidation) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if err != nil {
		agentHandler.logger.Errorw("create agent failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create agent",
		})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"agent":   created,
	})
}

func (agentHandler *AgentHandler) DeleteAgent(ctx *gin.Context) {
	err := agentHandler.agentService.Delete(ctx.Param("id"))
	if errors.Is(err, customerror.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Agent not found",
		})
		return
	}
	if err != nil {
		agentHandler.logger.Errorw("delete agent failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete agent",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Agent deleted successfully",
	})
}
