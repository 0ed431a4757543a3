package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/tracklearn/core/quiz"
)

type quizRepository struct {
	db *DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) CreateTest(_ context.Context, t quiz.Test) (quiz.Test, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = newID()
	for i := range t.Questions {
		q := &t.Questions[i]
		q.ID = newID()
		q.TestID = t.ID
		for j := range q.Options {
			q.Options[j].ID = newID()
			q.Options[j].QuestionID = q.ID
		}
	}
	stored := copyTest(t)
	repo.db.tests[t.ID] = &stored
	return copyTest(t), nil
}

func (repo *quizRepository) GetTest(_ context.Context, id string) (quiz.Test, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	t, ok := repo.db.tests[id]
	if !ok {
		return quiz.Test{}, quiz.ErrNotFound
	}
	res := copyTest(*t)
	sort.SliceStable(res.Questions, func(i, j int) bool {
		return res.Questions[i].IndexOrder < res.Questions[j].IndexOrder
	})
	for _, q := range res.Questions {
		opts := q.Options
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].IndexOrder < opts[j].IndexOrder })
	}
	return res, nil
}

// copyTest deep copies t so callers never share slices with the store.
func copyTest(t quiz.Test) quiz.Test {
	questions := make([]quiz.Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		opts := make([]quiz.Option, 0, len(q.Options))
		for _, o := range q.Options {
			if o.IsCorrect != nil {
				isCorrect := *o.IsCorrect
				o.IsCorrect = &isCorrect
			}
			opts = append(opts, o)
		}
		q.Options = opts
		questions = append(questions, q)
	}
	t.Questions = questions
	return t
}
