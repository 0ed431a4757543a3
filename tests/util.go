package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/storage/database"
)

// NewConfig returns the TEST configuration.
func NewConfig() *core.Config {
	_ = os.Setenv("ENV", "TEST")
	conf := core.NewConfig()
	conf.Server.DisableReqLogs = true
	return conf
}

func CreateUser(t *testing.T, repo user.Repository, name, uname, email, pwd, role string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
	}
	if pwd == "" {
		pwd = "secret"
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClassroom(t *testing.T, repo classroom.Repository, name string, teacher user.User) classroom.Classroom {
	cls, err := repo.CreateClassroom(context.Background(), classroom.Classroom{
		Name:      name,
		TeacherID: teacher.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateClassroom() failed: %v", err)
	}
	return cls
}

// CreateTest stores a test authored by author. Each question is a list of
// options; an option text prefixed with "*" is correct.
func CreateTest(t *testing.T, repo quiz.Repository, name string, author user.User, questions ...[]string) quiz.Test {
	test := quiz.Test{
		Name:      name,
		AuthorID:  author.ID,
		CreatedAt: time.Now().UTC(),
	}
	for i, opts := range questions {
		q := quiz.Question{Text: name + " question", IndexOrder: i}
		for j, text := range opts {
			isCorrect := len(text) > 0 && text[0] == '*'
			if isCorrect {
				text = text[1:]
			}
			q.Options = append(q.Options, quiz.Option{Text: text, IsCorrect: &isCorrect, IndexOrder: j})
		}
		test.Questions = append(test.Questions, q)
	}
	test, err := repo.CreateTest(context.Background(), test)
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}
	return test
}

// OpenDB connects to the database named by TEST_DATABASE_URL, migrates it and
// empties every table. The test is skipped when the variable is unset.
func OpenDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	q := `TRUNCATE test_results, assignments, options, questions, tests, units, categories, enrollments, classrooms, users`
	if _, err = db.Exec(q); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
