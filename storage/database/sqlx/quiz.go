package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/quiz"
)

type quizRepository struct {
	db core.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db core.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) CreateTest(ctx context.Context, t quiz.Test) (quiz.Test, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return quiz.Test{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	t.ID = newID()
	q := `INSERT INTO tests (id, name, category_id, author_id, created_at)
		VALUES (:id, :name, :category_id, :author_id, :created_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, q, t); err != nil {
		return quiz.Test{}, errors.Wrap(err, "inserting test")
	}

	for i := range t.Questions {
		qst := &t.Questions[i]
		qst.ID = newID()
		qst.TestID = t.ID
		q = `INSERT INTO questions (id, test_id, text, type, index_order)
			VALUES (:id, :test_id, :text, :type, :index_order)`
		if _, err = sqlx.NamedExecContext(ctx, tx, q, qst); err != nil {
			return quiz.Test{}, errors.Wrap(err, "inserting question")
		}

		for j := range qst.Options {
			opt := &qst.Options[j]
			opt.ID = newID()
			opt.QuestionID = qst.ID
			q = `INSERT INTO options (id, question_id, text, is_correct, index_order)
				VALUES (:id, :question_id, :text, :is_correct, :index_order)`
			if _, err = sqlx.NamedExecContext(ctx, tx, q, opt); err != nil {
				return quiz.Test{}, errors.Wrap(err, "inserting option")
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return quiz.Test{}, errors.Wrap(err, "committing test")
	}
	return t, nil
}

func (repo *quizRepository) GetTest(ctx context.Context, id string) (quiz.Test, error) {
	if !validID(id) {
		return quiz.Test{}, quiz.ErrNotFound
	}

	var t quiz.Test
	q := `SELECT id, name, category_id, author_id, created_at FROM tests WHERE id = $1`
	if err := repo.db.GetContext(ctx, &t, q, id); err != nil {
		if isNoRows(err) {
			return quiz.Test{}, quiz.ErrNotFound
		}
		return quiz.Test{}, errors.Wrap(err, "selecting test")
	}

	t.Questions = make([]quiz.Question, 0)
	q = `SELECT id, test_id, text, type, index_order FROM questions WHERE test_id = $1 ORDER BY index_order, id`
	if err := repo.db.SelectContext(ctx, &t.Questions, q, id); err != nil {
		return quiz.Test{}, errors.Wrap(err, "selecting questions")
	}

	var opts []quiz.Option
	q = `SELECT o.id, o.question_id, o.text, o.is_correct, o.index_order
		FROM options o
		JOIN questions q ON q.id = o.question_id
		WHERE q.test_id = $1
		ORDER BY o.index_order, o.id`
	if err := repo.db.SelectContext(ctx, &opts, q, id); err != nil {
		return quiz.Test{}, errors.Wrap(err, "selecting options")
	}

	byQuestion := make(map[string]int, len(t.Questions))
	for i := range t.Questions {
		t.Questions[i].Options = make([]quiz.Option, 0)
		byQuestion[t.Questions[i].ID] = i
	}
	for _, o := range opts {
		if i, ok := byQuestion[o.QuestionID]; ok {
			t.Questions[i].Options = append(t.Questions[i].Options, o)
		}
	}
	return t, nil
}
