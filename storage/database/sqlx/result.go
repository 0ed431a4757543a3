package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/result"
)

type resultRepository struct {
	db core.DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db core.DB) result.Repository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) CreateResult(ctx context.Context, res result.TestResult) (result.TestResult, error) {
	res.ID = newID()
	q := `INSERT INTO test_results (id, student_id, classroom_id, test_id, score, total_questions, correct_answers,
			status, started_at, ended_at, graded_by_server, created_at)
		VALUES (:id, :student_id, :classroom_id, :test_id, :score, :total_questions, :correct_answers,
			:status, :started_at, :ended_at, :graded_by_server, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, res); err != nil {
		return result.TestResult{}, errors.Wrap(err, "inserting test result")
	}
	return res, nil
}

func (repo *resultRepository) QueryResults(ctx context.Context, filter result.Filter) ([]result.Summary, error) {
	summaries := make([]result.Summary, 0)

	var (
		conds []string
		args  []interface{}
	)
	for _, f := range []struct {
		column string
		value  string
	}{
		{"r.student_id", filter.StudentID},
		{"r.classroom_id", filter.ClassroomID},
		{"r.test_id", filter.TestID},
		{"c.teacher_id", filter.TeacherID},
	} {
		if f.value == "" {
			continue
		}
		if !validID(f.value) {
			return summaries, nil
		}
		args = append(args, f.value)
		conds = append(conds, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}

	q := `SELECT r.id, r.student_id, r.classroom_id, r.test_id, r.score, r.total_questions, r.correct_answers,
			r.status, r.started_at, r.ended_at, r.graded_by_server, r.created_at,
			u.name AS student_name, c.name AS classroom_name, t.name AS test_name
		FROM test_results r
		JOIN users u ON u.id = r.student_id
		JOIN classrooms c ON c.id = r.classroom_id
		JOIN tests t ON t.id = r.test_id`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY r.created_at DESC, r.id`
	if err := repo.db.SelectContext(ctx, &summaries, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting test results")
	}
	return summaries, nil
}
