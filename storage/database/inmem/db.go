package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/catalog"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/result"
	"github.com/trezcool/tracklearn/core/user"
)

// DB is an in-memory store. One lock guards every table, so a uniqueness
// check and the insert it protects are atomic.
type DB struct {
	mu sync.RWMutex

	users       map[string]*user.User
	classrooms  map[string]*classroom.Classroom
	enrollments []classroom.Enrollment // insertion order
	tests       map[string]*quiz.Test
	categories  map[string]*catalog.Category
	units       map[string]*catalog.Unit
	assignments []assignment.Assignment // insertion order
	results     []result.TestResult     // insertion order
}

func Open() *DB {
	db := &DB{}
	db.reset()
	return db
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
}

func (db *DB) reset() {
	db.users = make(map[string]*user.User)
	db.classrooms = make(map[string]*classroom.Classroom)
	db.enrollments = nil
	db.tests = make(map[string]*quiz.Test)
	db.categories = make(map[string]*catalog.Category)
	db.units = make(map[string]*catalog.Unit)
	db.assignments = nil
	db.results = nil
}

func newID() string {
	return uuid.New().String()
}
