package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/tracklearn/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCategory(_ context.Context, cat catalog.Category) (catalog.Category, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, c := range repo.db.categories {
		if strings.EqualFold(c.Name, cat.Name) {
			return catalog.Category{}, catalog.ErrCategoryExists
		}
	}
	cat.ID = newID()
	repo.db.categories[cat.ID] = &cat
	return cat, nil
}

func (repo *catalogRepository) GetCategory(_ context.Context, id string) (catalog.Category, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cat, ok := repo.db.categories[id]; ok {
		return *cat, nil
	}
	return catalog.Category{}, catalog.ErrCategoryNotFound
}

func (repo *catalogRepository) QueryCategories(_ context.Context) ([]catalog.Category, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	cats := make([]catalog.Category, 0, len(repo.db.categories))
	for _, c := range repo.db.categories {
		cats = append(cats, *c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (repo *catalogRepository) CreateUnit(_ context.Context, u catalog.Unit) (catalog.Unit, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	u.ID = newID()
	repo.db.units[u.ID] = &u
	return u, nil
}

func (repo *catalogRepository) GetUnit(_ context.Context, id string) (catalog.Unit, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if u, ok := repo.db.units[id]; ok {
		return *u, nil
	}
	return catalog.Unit{}, catalog.ErrUnitNotFound
}

func (repo *catalogRepository) QueryUnits(_ context.Context) ([]catalog.Unit, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	units := make([]catalog.Unit, 0, len(repo.db.units))
	for _, u := range repo.db.units {
		units = append(units, *u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}
