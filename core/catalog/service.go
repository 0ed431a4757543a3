package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
)

var (
	// errors
	ErrCategoryNotFound = core.NewNotFoundError("Category not found")
	ErrCategoryExists   = core.NewConflictError("Category already exists")
	ErrUnitNotFound     = core.NewNotFoundError("Unit not found")
)

type (
	Repository interface {
		// CreateCategory returns ErrCategoryExists when the name is taken.
		CreateCategory(ctx context.Context, cat Category) (Category, error)
		GetCategory(ctx context.Context, id string) (Category, error)
		QueryCategories(ctx context.Context) ([]Category, error)
		CreateUnit(ctx context.Context, u Unit) (Unit, error)
		GetUnit(ctx context.Context, id string) (Unit, error)
		QueryUnits(ctx context.Context) ([]Unit, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateCategory(ctx context.Context, nl NewLabel) (Category, error) {
	cat, err := svc.repo.CreateCategory(ctx, Category{Name: nl.Name, Description: nl.Description})
	if err != nil {
		if errors.Cause(err) == ErrCategoryExists {
			return Category{}, ErrCategoryExists
		}
		return Category{}, errors.Wrap(err, "creating category")
	}
	return cat, nil
}

func (svc *Service) Categories(ctx context.Context) ([]Category, error) {
	cats, err := svc.repo.QueryCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	if cats == nil {
		cats = []Category{}
	}
	return cats, nil
}

func (svc *Service) CreateUnit(ctx context.Context, nl NewLabel) (Unit, error) {
	u, err := svc.repo.CreateUnit(ctx, Unit{
		Name:        nl.Name,
		Description: nl.Description,
		CreatedAt:   time.Now().UTC(),
	})
	return u, errors.Wrap(err, "creating unit")
}

func (svc *Service) Units(ctx context.Context) ([]Unit, error) {
	units, err := svc.repo.QueryUnits(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying units")
	}
	if units == nil {
		units = []Unit{}
	}
	return units, nil
}
