package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/xelobcoder/listing/internal/imagestore"
	"github.com/xelobcoder/listing/internal/repository"
	"github.com/xelobcoder/listing/pkg/customerror"
	"github.com/xelobcoder/listing/pkg/property"
	"go.uber.org/zap"
)

type PropertyServiceI interface {
	Search(filter property.Filter, page int, count int) ([]property.Property, *property.Pagination, error)
	Get(id string) (*property.Property, error)
	Create(record *property.Property, images []*multipart.FileHeader) (*property.Property, error)
	Update(id string, record *property.Property) (*property.Property, error)
	Delete(id string) error
	LoadImage(reference string) ([]byte, string, error)
	Stats() (*property.Stats, error)
}

type PropertyService struct {
	propertyRepo repository.PropertyRepositoryI
	imageStore   imagestore.ImageStoreI
	logger       *zap.SugaredLogger
	host         string
	port         string
}

func NewPropertyService(propertyRepo repository.PropertyRepositoryI, imageStore imagestore.ImageStoreI, logger *zap.SugaredLogger, host string, port string) PropertyServiceI {
	return &PropertyService{
		propertyRepo: propertyRepo,
		imageStore:   imageStore,
		logger:       logger,
		host:         host,
		port:         port,
	}
}

func (propertyService *PropertyService) Search(filter property.Filter, page int, count int) ([]property.Property, *property.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 10
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	properties, total, err := propertyService.propertyRepo.Search(ctx, filter, page, count)
	if err != nil {
		return nil, nil, err
	}
	pagination := &property.Pagination{
		Total:      total,
		Page:       page,
		Count:      count,
		TotalPages: totalPages(total, count),
	}
	return properties, pagination, nil
}

func totalPages(total int, count int) int {
	if total == 0 {
		return 0
	}
	return (total + count - 1) / count
}

func (propertyService *PropertyService) Get(id string) (*property.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return propertyService.propertyRepo.Get(ctx, id)
}

// Create inserts the row first to obtain the listing id, then stores each
// attached image under it and persists the resolved references. Any image
// failure rolls the whole create back: stored files and the row are removed
// and the caller sees the failure.
func (propertyService *PropertyService) Create(record *property.Property, images []*multipart.FileHeader) (*property.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	inserted, err := propertyService.propertyRepo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}

	imageUrls := []string{}
	for _, fileHeader := range images {
		reference, err := propertyService.storeImage(inserted.Id, fileHeader)
		if err != nil {
			propertyService.rollbackCreate(inserted.Id, imageUrls)
			return nil, err
		}
		imageUrls = append(imageUrls, reference)
	}
	if len(imageUrls) > 0 {
		if err := propertyService.propertyRepo.SetImageUrls(ctx, inserted.Id, imageUrls); err != nil {
			propertyService.rollbackCreate(inserted.Id, imageUrls)
			return nil, err
		}
		inserted.ImageUrls = imageUrls
	}
	return inserted, nil
}

func (propertyService *PropertyService) storeImage(listingId string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", customerror.NewError(customerror.ErrStorage, "PropertyService.storeImage", propertyService.host+":"+propertyService.port, err.Error())
	}
	defer src.Close()
	return propertyService.imageStore.Save(listingId, src, fileHeader.Filename)
}

func (propertyService *PropertyService) rollbackCreate(id string, imageUrls []string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	for _, reference := range imageUrls {
		if err := propertyService.imageStore.Remove(reference); err != nil {
			propertyService.logger.Errorw("create rollback: image remove failed", "reference", reference, "error", err)
		}
	}
	if err := propertyService.propertyRepo.Delete(ctx, id); err != nil && !errors.Is(err, customerror.ErrNotFound) {
		propertyService.logger.Errorw("create rollback: row delete failed", "id", id, "error", err)
	}
}

// Update carries the stored image and floor-plan lists over when the incoming
// record leaves them nil, so a partial form update never drops a listing's
// files. An explicit empty list still clears them.
func (propertyService *PropertyService) Update(id string, record *property.Property) (*property.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if record.ImageUrls == nil || record.FloorPlans == nil {
		existing, err := propertyService.propertyRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if record.ImageUrls == nil {
			record.ImageUrls = existing.ImageUrls
		}
		if record.FloorPlans == nil {
			record.FloorPlans = existing.FloorPlans
		}
	}
	return propertyService.propertyRepo.Update(ctx, id, record)
}

// Delete removes the row and then the listing's image files. File removal is
// best effort; the sweeper reconciles anything left behind.
func (propertyService *PropertyService) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	record, err := propertyService.propertyRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := propertyService.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, reference := range record.ImageUrls {
		if err := propertyService.imageStore.Remove(reference); err != nil {
			propertyService.logger.Errorw("delete: image remove failed", "reference", reference, "error", err)
		}
	}
	return nil
}

func (propertyService *PropertyService) LoadImage(reference string) ([]byte, string, error) {
	return propertyService.imageStore.Load(reference)
}

func (propertyService *PropertyService) Stats() (*property.Stats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return propertyService.propertyRepo.Stats(ctx)
}
