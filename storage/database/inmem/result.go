package inmemdb

import (
	"context"

	"github.com/trezcool/tracklearn/core/result"
)

type resultRepository struct {
	db *DB
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) CreateResult(_ context.Context, res result.TestResult) (result.TestResult, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	res.ID = newID()
	repo.db.results = append(repo.db.results, res)
	return res, nil
}

func (repo *resultRepository) QueryResults(_ context.Context, filter result.Filter) ([]result.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	summaries := make([]result.Summary, 0)
	// newest first
	for i := len(repo.db.results) - 1; i >= 0; i-- {
		res := repo.db.results[i]
		if (filter.StudentID != "" && res.StudentID != filter.StudentID) ||
			(filter.ClassroomID != "" && res.ClassroomID != filter.ClassroomID) ||
			(filter.TestID != "" && res.TestID != filter.TestID) {
			continue
		}
		if filter.TeacherID != "" {
			if cls, ok := repo.db.classrooms[res.ClassroomID]; !ok || cls.TeacherID != filter.TeacherID {
				continue
			}
		}
		s := result.Summary{TestResult: res}
		if usr, ok := repo.db.users[res.StudentID]; ok {
			s.StudentName = usr.Name
		}
		if cls, ok := repo.db.classrooms[res.ClassroomID]; ok {
			s.ClassroomName = cls.Name
		}
		if t, ok := repo.db.tests[res.TestID]; ok {
			s.TestName = t.Name
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
