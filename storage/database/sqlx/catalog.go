package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/catalog"
)

type catalogRepository struct {
	db core.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db core.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCategory(ctx context.Context, cat catalog.Category) (catalog.Category, error) {
	cat.ID = newID()
	q := `INSERT INTO categories (id, name, description) VALUES (:id, :name, :description)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, cat); err != nil {
		if isUniqueViolation(err) {
			return catalog.Category{}, catalog.ErrCategoryExists
		}
		return catalog.Category{}, errors.Wrap(err, "inserting category")
	}
	return cat, nil
}

func (repo *catalogRepository) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	if !validID(id) {
		return catalog.Category{}, catalog.ErrCategoryNotFound
	}
	var cat catalog.Category
	if err := repo.db.GetContext(ctx, &cat, `SELECT id, name, description FROM categories WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return catalog.Category{}, catalog.ErrCategoryNotFound
		}
		return catalog.Category{}, errors.Wrap(err, "selecting category")
	}
	return cat, nil
}

func (repo *catalogRepository) QueryCategories(ctx context.Context) ([]catalog.Category, error) {
	cats := make([]catalog.Category, 0)
	if err := repo.db.SelectContext(ctx, &cats, `SELECT id, name, description FROM categories ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "selecting categories")
	}
	return cats, nil
}

func (repo *catalogRepository) CreateUnit(ctx context.Context, u catalog.Unit) (catalog.Unit, error) {
	u.ID = newID()
	q := `INSERT INTO units (id, name, description, created_at) VALUES (:id, :name, :description, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, u); err != nil {
		return catalog.Unit{}, errors.Wrap(err, "inserting unit")
	}
	return u, nil
}

func (repo *catalogRepository) GetUnit(ctx context.Context, id string) (catalog.Unit, error) {
	if !validID(id) {
		return catalog.Unit{}, catalog.ErrUnitNotFound
	}
	var u catalog.Unit
	if err := repo.db.GetContext(ctx, &u, `SELECT id, name, description, created_at FROM units WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return catalog.Unit{}, catalog.ErrUnitNotFound
		}
		return catalog.Unit{}, errors.Wrap(err, "selecting unit")
	}
	return u, nil
}

func (repo *catalogRepository) QueryUnits(ctx context.Context) ([]catalog.Unit, error) {
	units := make([]catalog.Unit, 0)
	if err := repo.db.SelectContext(ctx, &units, `SELECT id, name, description, created_at FROM units ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "selecting units")
	}
	return units, nil
}
