package result_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/result"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/storage/database/inmem"
	"github.com/trezcool/tracklearn/tests"
)

func submission(studentID, classroomID, testID string, score int, answers result.Answers) result.NewResult {
	total, correct, status := 4, score/25, result.StatusCompleted
	started, ended := "2024-03-01T10:00:00Z", "2024-03-01T10:30:00Z"
	nr := result.NewResult{
		StudentID:      &studentID,
		ClassroomID:    &classroomID,
		TestID:         &testID,
		Score:          &score,
		TotalQuestions: &total,
		CorrectAnswers: &correct,
		Status:         &status,
		StartedAt:      &started,
		EndedAt:        &ended,
		Answers:        answers,
	}
	if err := nr.Validate(false); err != nil {
		panic(err)
	}
	return nr
}

func TestService(t *testing.T) {
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	clsRepo := inmemdb.NewClassroomRepository(db)
	quizRepo := inmemdb.NewQuizRepository(db)
	svc := result.NewService(inmemdb.NewResultRepository(db), usrRepo, clsRepo, quizRepo)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice", "alice@test.cd", "", user.RoleStudent)
	cls := testutil.CreateClassroom(t, clsRepo, "Algebra 101", teacher)
	test := testutil.CreateTest(t, quizRepo, "Quiz 1", teacher, []string{"3", "*4"}, []string{"*9", "6"})

	results, err := svc.Search(ctx, result.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []result.Summary{}, results)

	t.Run("unknown references", func(t *testing.T) {
		_, err := svc.Create(ctx, submission("lol", cls.ID, test.ID, 50, nil))
		assert.Equal(t, classroom.ErrStudentNotFound, err)
		_, err = svc.Create(ctx, submission(alice.ID, "lol", test.ID, 50, nil))
		assert.Equal(t, classroom.ErrNotFound, err)
		_, err = svc.Create(ctx, submission(alice.ID, cls.ID, "lol", 50, nil))
		assert.Equal(t, quiz.ErrNotFound, err)
	})

	declared, err := svc.Create(ctx, submission(alice.ID, cls.ID, test.ID, 75, nil))
	require.NoError(t, err)
	assert.Equal(t, 75, declared.Score)
	assert.Equal(t, 4, declared.TotalQuestions)
	assert.Equal(t, 3, declared.CorrectAnswers)
	assert.False(t, declared.GradedByServer)

	q1, q2 := test.Questions[0], test.Questions[1]
	graded, err := svc.Create(ctx, submission(alice.ID, cls.ID, test.ID, 75, result.Answers{
		q1.ID: {q1.Options[1].ID},
		q2.ID: {q2.Options[1].ID},
	}))
	require.NoError(t, err)
	assert.Equal(t, 50, graded.Score)
	assert.Equal(t, 2, graded.TotalQuestions)
	assert.Equal(t, 1, graded.CorrectAnswers)
	assert.True(t, graded.GradedByServer)
	assert.NotEqual(t, declared.ID, graded.ID)

	results, err = svc.Search(ctx, result.Filter{StudentID: alice.ID, TestID: test.ID})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, graded.ID, results[0].ID, "newest first")
	assert.Equal(t, declared.ID, results[1].ID)
	assert.Equal(t, "Alice", results[0].StudentName)
	assert.Equal(t, "Algebra 101", results[0].ClassroomName)
	assert.Equal(t, "Quiz 1", results[0].TestName)

	results, err = svc.Search(ctx, result.Filter{ClassroomID: "lol"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(ctx, result.Filter{TeacherID: teacher.ID})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	results, err = svc.Search(ctx, result.Filter{TeacherID: alice.ID})
	require.NoError(t, err)
	assert.Empty(t, results)
}
