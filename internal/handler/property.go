package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xelobcoder/listing/internal/service"
	"github.com/xelobcoder/listing/pkg/customerror"
	"github.com/xelobcoder/listing/pkg/property"
	"go.uber.org/zap"
)

type PropertyHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	ListProperties(ctx *gin.Context)
	GetProperty(ctx *gin.Context)
	CreateProperty(ctx *gin.Context)
	UpdateProperty(ctx *gin.Context)
	DeleteProperty(ctx *gin.Context)
	GetImage(ctx *gin.Context)
	PropertyStats(ctx *gin.Context)
}

type PropertyHandler struct {
	propertyService service.PropertyServiceI
	logger          *zap.SugaredLogger
}

func NewPropertyHandler(propertyService service.PropertyServiceI, logger *zap.SugaredLogger) PropertyHandlerI {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

func (propertyHandler *PropertyHandler) RegisterRoutes(group *gin.RouterGroup) {
	propertyGroup := group.Group("/properties")
	propertyGroup.GET("", propertyHandler.ListProperties)
	propertyGroup.POST("", propertyHandler.CreateProperty)
	propertyGroup.GET("/stats", propertyHandler.PropertyStats)
	propertyGroup.GET("/images", propertyHandler.GetImage)
	propertyGroup.GET("/:id", propertyHandler.GetProperty)
	propertyGroup.PUT("/:id", propertyHandler.UpdateProperty)
	propertyGroup.DELETE("/:id", propertyHandler.DeleteProperty)
}

func (propertyHandler *PropertyHandler) ListProperties(ctx *gin.Context) {
	filter := property.Filter{
		PropertyType: ctx.Query("propertyType"),
		City:         ctx.Query("city"),
	}
	if raw := ctx.Query("minPrice"); raw != "" {
		if minPrice, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &minPrice
		}
	}
	if raw := ctx.Query("maxPrice"); raw != "" {
		if maxPrice, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &maxPrice
		}
	}
	page := queryInt(ctx, "page", 1)
	count := queryInt(ctx, "count", 10)

	properties, pagination, err := propertyHandler.propertyService.Search(filter, page, count)
	if err != nil {
		propertyHandler.logger.Errorw("list properties failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch properties",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"pagination": pagination,
	})
}

func (propertyHandler *PropertyHandler) GetProperty(ctx *gin.Context) {
	record, err := propertyHandler.propertyService.Get(ctx.Param("id"))
	if errors.Is(err, customerror.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Property not found",
		})
		return
	}
	if err != nil {
		propertyHandler.logger.Errorw("get property failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch property",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"property": record})
}

func (propertyHandler *PropertyHandler) CreateProperty(ctx *gin.Context) {
	record, err := propertyFromForm(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	created, err := propertyHandler.propertyService.Create(record, imageFilesFromForm(ctx))
	if errors.Is(err, customerror.ErrValidation) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if err != nil {
		propertyHandler.logger.Errorw("create property failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create property listing",
		})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"property": created,
	})
}

func (propertyHandler *PropertyHandler) UpdateProperty(ctx *gin.Context) {
	record, err := propertyFromForm(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	updated, err := propertyHandler.propertyService.Update(ctx.Param("id"), record)
	if errors.Is(err, customerror.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Property not found",
		})
		return
	}
	if errors.Is(err, customerror.ErrValidation) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if err != nil {
		propertyHandler.logger.Errorw("update property failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update property",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"property": updated})
}

func (propertyHandler *PropertyHandler) DeleteProperty(ctx *gin.Context) {
	err := propertyHandler.propertyService.Delete(ctx.Param("id"))
	if errors.Is(err, customerror.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Property not found",
		})
		return
	}
	if err != nil {
		propertyHandler.logger.Errorw("delete property failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to delete property",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Property deleted successfully",
	})
}

func (propertyHandler *PropertyHandler) GetImage(ctx *gin.Context) {
	imageId := ctx.Query("imageId")
	if imageId == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Image ID is required"})
		return
	}
	content, contentType, err := propertyHandler.propertyService.LoadImage(imageId)
	if err != nil {
		propertyHandler.logger.Errorw("load image failed", "imageId", imageId, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process image request"})
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", imageId))
	ctx.Data(http.StatusOK, contentType, content)
}

func (propertyHandler *PropertyHandler) PropertyStats(ctx *gin.Context) {
	stats, err := propertyHandler.propertyService.Stats()
	if err != nil {
		propertyHandler.logger.Errorw("property stats failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch property stats",
		})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func propertyFromForm(ctx *gin.Context) (*property.Property, error) {
	imageUrls, err := refListFromForm(ctx, "imageUrls")
	if err != nil {
		return nil, err
	}
	floorPlans, err := refListFromForm(ctx, "floorPlans")
	if err != nil {
		return nil, err
	}
	return &property.Property{
		Title:         ctx.PostForm("title"),
		Description:   ctx.PostForm("description"),
		Price:         formFloat(ctx, "price"),
		PropertyType:  ctx.PostForm("propertyType"),
		Bedrooms:      formInt(ctx, "bedrooms"),
		Bathrooms:     formInt(ctx, "bathrooms"),
		SquareFeet:    formInt(ctx, "squareFeet"),
		LotSize:       formInt(ctx, "lotSize"),
		YearBuilt:     formInt(ctx, "yearBuilt"),
		Status:        ctx.PostForm("status"),
		Address:       ctx.PostForm("address"),
		City:          ctx.PostForm("city"),
		State:         ctx.PostForm("state"),
		PostalCode:    ctx.PostForm("postalCode"),
		Country:       ctx.PostForm("country"),
		Latitude:      formFloatPtr(ctx, "latitude"),
		Longitude:     formFloatPtr(ctx, "longitude"),
		HasGarage:     ctx.PostForm("hasGarage") == "true",
		HasPool:       ctx.PostForm("hasPool") == "true",
		HasBasement:   ctx.PostForm("hasBasement") == "true",
		HasFireplace:  ctx.PostForm("hasFireplace") == "true",
		ParkingSpaces: formInt(ctx, "parkingSpaces"),
		HeatingType:   ctx.PostForm("heatingType"),
		CoolingType:   ctx.PostForm("coolingType"),
		ImageUrls:     imageUrls,
		VideoUrl:      ctx.PostForm("videoUrl"),
		FloorPlans:    floorPlans,
		AgentId:       ctx.PostForm("agentId"),
	}, nil
}

// refListFromForm parses a form field holding a JSON array of reference
// strings. An absent field yields nil so updates keep the stored list;
// anything present that is not a JSON array is rejected up front.
func refListFromForm(ctx *gin.Context, field string) ([]string, error) {
	raw, ok := ctx.GetPostForm(field)
	if !ok || raw == "" {
		return nil, nil
	}
	refs := []string{}
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil, fmt.Errorf("%s must be a JSON array of strings", field)
	}
	return refs, nil
}

// imageFilesFromForm collects uploaded files under image_* keys in suffix
// order, matching the form's image_0, image_1, ... convention. The suffix is
// compared numerically so image_10 sorts after image_2.
func imageFilesFromForm(ctx *gin.Context) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	keys := []string{}
	for key := range form.File {
		if strings.HasPrefix(key, "image_") {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return imageKeySequence(keys[i]) < imageKeySequence(keys[j])
	})
	files := []*multipart.FileHeader{}
	for _, key := range keys {
		files = append(files, form.File[key]...)
	}
	return files
}

func imageKeySequence(key string) int {
	sequence, err := strconv.Atoi(strings.TrimPrefix(key, "image_"))
	if err != nil {
		return math.MaxInt
	}
	return sequence
}

func queryInt(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func formInt(ctx *gin.Context, field string) int {
	value, err := strconv.Atoi(ctx.PostForm(field))
	if err != nil {
		return 0
	}
	return value
}

func formFloat(ctx *gin.Context, field string) float64 {
	value, err := strconv.ParseFloat(ctx.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return value
}

func formFloatPtr(ctx *gin.Context, field string) *float64 {
	raw := ctx.PostForm(field)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
