package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/tracklearn/apps/api/echo"
	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/result"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/tests"
)

// Test_classroomJourney walks a class through enrollment, assignment and grading.
func Test_classroomJourney(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin)

	do := func(t *testing.T, method, path, token string, body interface{}, wantCode int, v interface{}) {
		t.Helper()
		var data []byte
		if body != nil {
			data = marshallObj(t, body)
		}
		req, rec := newAuthRequest(method, path, token, data)
		app.ServeHTTP(rec, req)
		require.Equal(t, wantCode, rec.Code, rec.Body.String())
		if v != nil {
			unmarshall(t, rec, v)
		}
	}
	login := func(t *testing.T, uname string) string {
		var resp echoapi.LoginResponse
		do(t, http.MethodPost, "/api/users/login", "", echoapi.LoginRequest{Username: uname, Password: "pwd"}, http.StatusOK, &resp)
		return resp.Token
	}
	register := func(t *testing.T, uname, role string) user.User {
		var usr user.User
		nu := user.NewUser{Name: uname, Username: uname, Email: uname + "@test.cd", Password: "pwd", PasswordConfirm: "pwd", Role: role}
		do(t, http.MethodPost, "/api/users/register", getToken(t, admin), nu, http.StatusCreated, &usr)
		return usr
	}

	register(t, "teacher", user.RoleTeacher)
	student := register(t, "student", user.RoleStudent)
	teacherToken, studentToken := login(t, "teacher"), login(t, "student")

	var cls classroom.Classroom
	do(t, http.MethodPost, "/api/classrooms", teacherToken, classroom.NewClassroom{Name: "Algebra 101"}, http.StatusCreated, &cls)

	var test quiz.Test
	do(t, http.MethodPost, "/api/tests", teacherToken, quiz.NewTest{
		Name: "Quiz 1",
		Questions: []quiz.NewQuestion{
			{Text: "2 + 2 = ?", Options: []quiz.NewOption{{Text: "3"}, {Text: "4", IsCorrect: true}}},
			{Text: "3 * 3 = ?", Options: []quiz.NewOption{{Text: "9", IsCorrect: true}, {Text: "6"}}},
		},
	}, http.StatusCreated, &test)

	enrollment := classroom.EnrollmentRequest{ClassroomID: strPtr(cls.ID), StudentID: strPtr(student.ID)}
	do(t, http.MethodPost, "/api/enrollment", studentToken, enrollment, http.StatusCreated, nil)
	do(t, http.MethodPost, "/api/enrollment", studentToken, enrollment, http.StatusConflict, nil)

	do(t, http.MethodPost, "/api/assignedtests", teacherToken,
		assignment.NewAssignment{ClassroomID: strPtr(cls.ID), TestID: strPtr(test.ID)}, http.StatusCreated, nil)
	require.Len(t, mailSvc.SentMessages(), 1)
	assert.Equal(t, student.Email, mailSvc.SentMessages()[0].To[0].Address)

	var assigned []assignment.Summary
	do(t, http.MethodGet, "/api/assignedtests/classroom/"+cls.ID, studentToken, nil, http.StatusOK, &assigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Quiz 1", assigned[0].TestName)

	var studentView quiz.Test
	do(t, http.MethodGet, "/api/tests/"+test.ID, studentToken, nil, http.StatusOK, &studentView)
	require.Len(t, studentView.Questions, 2)
	for _, q := range studentView.Questions {
		for _, o := range q.Options {
			assert.Nil(t, o.IsCorrect, "students must not see the answer key")
		}
	}

	// one right, one wrong
	q1, q2 := studentView.Questions[0], studentView.Questions[1]
	submission := map[string]interface{}{
		"student_id":      student.ID,
		"classroom_id":    cls.ID,
		"test_id":         test.ID,
		"score":           0,
		"total_questions": 0,
		"correct_answers": 0,
		"status":          result.StatusCompleted,
		"started_at":      "2024-03-01T10:00:00Z",
		"ended_at":        "2024-03-01T10:20:00Z",
		"answers": map[string]interface{}{
			q1.ID: q1.Options[1].ID,
			q2.ID: q2.Options[1].ID,
		},
	}
	var res result.TestResult
	do(t, http.MethodPost, "/api/testresult", studentToken, submission, http.StatusCreated, &res)
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, 2, res.TotalQuestions)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, "completed", res.Status)

	var results []result.Summary
	do(t, http.MethodGet, "/api/testresult/search?classroom="+cls.ID, teacherToken, nil, http.StatusOK, &results)
	require.Len(t, results, 1)
	assert.Equal(t, res.ID, results[0].ID)
	assert.Equal(t, "student", results[0].StudentName)
	assert.Equal(t, "Algebra 101", results[0].ClassroomName)
	assert.Equal(t, "Quiz 1", results[0].TestName)

	do(t, http.MethodDelete, "/api/assignedtests/classroom/"+cls.ID+"/test/"+test.ID, teacherToken, nil, http.StatusOK, nil)
	do(t, http.MethodGet, "/api/assignedtests/classroom/"+cls.ID, studentToken, nil, http.StatusOK, &assigned)
	assert.Empty(t, assigned)
}
