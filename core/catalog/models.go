package catalog

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tracklearn/core"
)

type Category struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

type Unit struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewLabel contains information needed to create a new Category or Unit.
type NewLabel struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

func (nl *NewLabel) Validate(validate *validator.Validate) error {
	nl.Name = core.CleanString(nl.Name)
	nl.Description = core.CleanString(nl.Description)
	return validate.Struct(nl)
}
