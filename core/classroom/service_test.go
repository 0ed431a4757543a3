package classroom_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/storage/database/inmem"
	"github.com/trezcool/tracklearn/tests"
)

func setup() (*classroom.Service, user.Repository, classroom.Repository) {
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	clsRepo := inmemdb.NewClassroomRepository(db)
	return classroom.NewService(clsRepo, usrRepo), usrRepo, clsRepo
}

func TestService_Create(t *testing.T) {
	svc, usrRepo, _ := setup()
	ctx := context.Background()
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)

	tests := []struct {
		name    string
		nc      classroom.NewClassroom
		wantErr error
	}{
		{name: "unknown teacher", nc: classroom.NewClassroom{Name: "Algebra 101", TeacherID: "lol"}, wantErr: classroom.ErrTeacherNotFound},
		{name: "not a teacher", nc: classroom.NewClassroom{Name: "Algebra 101", TeacherID: student.ID}, wantErr: classroom.ErrNotATeacher},
		{name: "created", nc: classroom.NewClassroom{Name: "Algebra 101", TeacherID: teacher.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := svc.Create(ctx, tt.nc)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cls.ID)
			assert.Equal(t, teacher.ID, cls.TeacherID)
			assert.False(t, cls.CreatedAt.IsZero())

			got, err := svc.GetByID(ctx, cls.ID)
			require.NoError(t, err)
			assert.Equal(t, cls, got)
		})
	}
}

func TestService_Enroll(t *testing.T) {
	svc, usrRepo, clsRepo := setup()
	ctx := context.Background()
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice", "alice@test.cd", "", user.RoleStudent)
	cls := testutil.CreateClassroom(t, clsRepo, "Algebra 101", teacher)

	_, err := svc.Enroll(ctx, "lol", alice.ID)
	assert.Equal(t, classroom.ErrNotFound, err)
	_, err = svc.Enroll(ctx, cls.ID, "lol")
	assert.Equal(t, classroom.ErrStudentNotFound, err)
	_, err = svc.Enroll(ctx, cls.ID, teacher.ID)
	assert.Equal(t, classroom.ErrNotAStudent, err)
	assert.True(t, core.IsArgumentKind(err, core.InvalidRole))

	rec, err := svc.Enroll(ctx, cls.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, classroom.EnrollmentRecord{
		Message:       "Student enrolled successfully",
		ClassroomID:   cls.ID,
		ClassroomName: "Algebra 101",
		StudentID:     alice.ID,
		StudentName:   "Alice",
	}, rec)

	enrolled, err := svc.IsEnrolled(ctx, cls.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	_, err = svc.Enroll(ctx, cls.ID, alice.ID)
	assert.Equal(t, classroom.ErrAlreadyEnrolled, err)
}

func TestService_Enroll_concurrent(t *testing.T) {
	svc, usrRepo, clsRepo := setup()
	ctx := context.Background()
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice", "alice@test.cd", "", user.RoleStudent)
	cls := testutil.CreateClassroom(t, clsRepo, "Algebra 101", teacher)

	const n = 10
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Enroll(ctx, cls.ID, alice.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch err {
		case nil:
			ok++
		case classroom.ErrAlreadyEnrolled:
			conflicts++
		default:
			t.Errorf("Enroll() unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestService_RemoveEnrollment(t *testing.T) {
	svc, usrRepo, clsRepo := setup()
	ctx := context.Background()
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice", "alice@test.cd", "", user.RoleStudent)
	cls := testutil.CreateClassroom(t, clsRepo, "Algebra 101", teacher)

	assert.Equal(t, classroom.ErrNotFound, svc.RemoveEnrollment(ctx, "lol", alice.ID))
	assert.Equal(t, classroom.ErrStudentNotFound, svc.RemoveEnrollment(ctx, cls.ID, "lol"))
	assert.Equal(t, classroom.ErrEnrollmentNotFound, svc.RemoveEnrollment(ctx, cls.ID, alice.ID))

	_, err := svc.Enroll(ctx, cls.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveEnrollment(ctx, cls.ID, alice.ID))

	enrolled, err := svc.IsEnrolled(ctx, cls.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestService_ListStudents(t *testing.T) {
	svc, usrRepo, clsRepo := setup()
	ctx := context.Background()
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	alice := testutil.CreateUser(t, usrRepo, "Alice", "alice", "alice@test.cd", "", user.RoleStudent)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob", "bob@test.cd", "", user.RoleStudent)
	cls := testutil.CreateClassroom(t, clsRepo, "Algebra 101", teacher)

	students, err := svc.ListStudents(ctx, cls.ID)
	require.NoError(t, err)
	assert.Equal(t, []classroom.StudentSummary{}, students)

	for _, s := range []user.User{bob, alice} {
		_, err = svc.Enroll(ctx, cls.ID, s.ID)
		require.NoError(t, err)
	}
	students, err = svc.ListStudents(ctx, cls.ID)
	require.NoError(t, err)
	assert.Equal(t, []classroom.StudentSummary{
		{ID: bob.ID, Name: "Bob", Username: "bob", Email: "bob@test.cd"},
		{ID: alice.ID, Name: "Alice", Username: "alice", Email: "alice@test.cd"},
	}, students)

	_, err = svc.ListStudents(ctx, "lol")
	assert.Equal(t, classroom.ErrNotFound, err)
}
