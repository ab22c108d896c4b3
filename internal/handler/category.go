package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xelobcoder/listing/internal/service"
	"github.com/xelobcoder/listing/pkg/category"
	"github.com/xelobcoder/listing/pkg/customerror"
	"go.uber.org/zap"
)

type CategoryHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	ListCategories(ctx *gin.Context)
	CreateCategory(ctx *gin.Context)
}

type CategoryHandler struct {
	categoryService service.CategoryServiceI
	logger          *zap.SugaredLogger
}

func NewCategoryHandler(categoryService service.CategoryServiceI, logger *zap.SugaredLogger) CategoryHandlerI {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (categoryHandler *CategoryHandler) RegisterRoutes(group *gin.RouterGroup) {
	categoryGroup := group.Group("/categories")
	categoryGroup.GET("", categoryHandler.ListCategories)
	categoryGroup.POST("", categoryHandler.CreateCategory)
}

func (categoryHandler *CategoryHandler) ListCategories(ctx *gin.Context) {
	categories, err := categoryHandler.categoryService.List()
	if err != nil {
		categoryHandler.logger.Errorw("list categories failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch categories",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (categoryHandler *CategoryHandler) CreateCategory(ctx *gin.Context) {
	var record category.Category
	if err := ctx.ShouldBindBodyWithJSON(&record); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid data",
		})
		return
	}
	created, err := categoryHandler.categoryService.Create(&record)
	if errors.Is(err, customerror.ErrValidation) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if err != nil {
		categoryHandler.logger.Errorw("create category failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create category",
		})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"category": created,
	})
}
