package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/catalog"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("Test not found")
)

type (
	Repository interface {
		// CreateTest stores the test with its questions and options atomically.
		CreateTest(ctx context.Context, t Test) (Test, error)
		// GetTest returns the test with questions and options sorted by IndexOrder,
		// or ErrNotFound.
		GetTest(ctx context.Context, id string) (Test, error)
	}

	Service struct {
		repo    Repository
		catRepo catalog.Repository
	}
)

func NewService(repo Repository, catRepo catalog.Repository) *Service {
	return &Service{repo: repo, catRepo: catRepo}
}

func (svc *Service) Create(ctx context.Context, nt NewTest, authorID string) (Test, error) {
	t := Test{
		Name:      nt.Name,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
		Questions: make([]Question, 0, len(nt.Questions)),
	}
	if nt.CategoryID != "" {
		cat, err := svc.catRepo.GetCategory(ctx, nt.CategoryID)
		if err != nil {
			return Test{}, err
		}
		t.CategoryID = null.StringFrom(cat.ID)
	}

	for i, nq := range nt.Questions {
		q := Question{
			Text:       nq.Text,
			Type:       null.NewString(nq.Type, nq.Type != ""),
			IndexOrder: indexOrder(nq.IndexOrder, i),
			Options:    make([]Option, 0, len(nq.Options)),
		}
		for j, no := range nq.Options {
			isCorrect := no.IsCorrect
			q.Options = append(q.Options, Option{
				Text:       no.Text,
				IsCorrect:  &isCorrect,
				IndexOrder: indexOrder(no.IndexOrder, j),
			})
		}
		t.Questions = append(t.Questions, q)
	}

	t, err := svc.repo.CreateTest(ctx, t)
	return t, errors.Wrap(err, "creating test")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Test, error) {
	return svc.repo.GetTest(ctx, id)
}

func indexOrder(explicit *int, pos int) int {
	if explicit != nil {
		return *explicit
	}
	return pos
}
