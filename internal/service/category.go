package service

import (
	"context"
	"time"

	"github.com/xelobcoder/listing/internal/repository"
	"github.com/xelobcoder/listing/pkg/category"
)

type CategoryServiceI interface {
	List() ([]category.Category, error)
	Create(record *category.Category) (*category.Category, error)
}

type CategoryService struct {
	categoryRepo repository.CategoryRepositoryI
	host         string
	port         string
}

func NewCategoryService(categoryRepo repository.CategoryRepositoryI, host string, port string) CategoryServiceI {
	return &CategoryService{
		categoryRepo: categoryRepo,
		host:         host,
		port:         port,
	}
}

func (categoryService *CategoryService) List() ([]category.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return categoryService.categoryRepo.List(ctx)
}

func (categoryService *CategoryService) Create(record *category.Category) (*category.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return categoryService.categoryRepo.Insert(ctx, record)
}
