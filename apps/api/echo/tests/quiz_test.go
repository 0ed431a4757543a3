package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/catalog"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/tests"
)

func intPtr(i int) *int { return &i }

func Test_quizApi_create(t *testing.T) {
	app := setup(t)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	teacherToken := getToken(t, teacher)
	path := "/api/tests"

	valid := quiz.NewTest{
		Name: "Quiz 1",
		Questions: []quiz.NewQuestion{
			{
				Text: "2 + 2 = ?",
				Options: []quiz.NewOption{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
			},
			{
				Text:       "Pick the primes",
				Type:       "multiple",
				IndexOrder: intPtr(0),
				Options: []quiz.NewOption{
					{Text: "2", IsCorrect: true},
					{Text: "3", IsCorrect: true},
					{Text: "4"},
				},
			},
		},
	}

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodPost, path: path, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "students not allowed", method: http.MethodPost, path: path, token: getToken(t, student), body: marshallObj(t, valid),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "no questions", method: http.MethodPost, path: path, token: teacherToken, body: marshallObj(t, quiz.NewTest{Name: "Quiz 1"}),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"questions": "this field is required"}),
		},
		{
			name: "question without options", method: http.MethodPost, path: path, token: teacherToken,
			body:     marshallObj(t, quiz.NewTest{Name: "Quiz 1", Questions: []quiz.NewQuestion{{Text: "Why?"}}}),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"questions[0].options": "this field is required"}),
		},
		{
			name: "unknown category", method: http.MethodPost, path: path, token: teacherToken,
			body:     marshallObj(t, quiz.NewTest{Name: "Quiz 1", CategoryID: unknownID, Questions: valid.Questions}),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "Category not found"}),
		},
	})

	t.Run("test created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, teacherToken, marshallObj(t, valid))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created quiz.Test
		unmarshall(t, rec, &created)
		assert.Equal(t, teacher.ID, created.AuthorID)

		stored, err := quizRepo.GetTest(req.Context(), created.ID)
		require.NoError(t, err)
		require.Len(t, stored.Questions, 2)
		// equal index_order keeps the submitted order
		assert.Equal(t, "2 + 2 = ?", stored.Questions[0].Text)
		assert.Equal(t, "Pick the primes", stored.Questions[1].Text)
		assert.Equal(t, "multiple", stored.Questions[1].Type.String)
		assert.Len(t, stored.AnswerKey()[stored.Questions[1].ID], 2)
	})
}

func Test_quizApi_retrieve(t *testing.T) {
	app := setup(t)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	carol := testutil.CreateUser(t, usrRepo, "Carol", "carol", "carol@test.cd", "", user.RoleStudent)
	cls := testutil.CreateClassroom(t, clsRepo, "Algebra 101", teacher)
	test := testutil.CreateTest(t, quizRepo, "Quiz 1", teacher, []string{"3", "*4"})
	hidden := testutil.CreateTest(t, quizRepo, "Quiz 2", teacher, []string{"*yes", "no"})
	unassigned := testutil.CreateTest(t, quizRepo, "Quiz 3", teacher, []string{"*yes", "no"})
	enroll(t, cls, student)
	createAssignment(t, assignment.Assignment{ClassroomID: cls.ID, TestID: test.ID, Visibility: true})
	createAssignment(t, assignment.Assignment{ClassroomID: cls.ID, TestID: hidden.ID})
	path := "/api/tests/" + test.ID
	studentToken := getToken(t, student)

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodGet, path: path, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "not found", method: http.MethodGet, path: "/api/tests/" + unknownID, token: getToken(t, teacher),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "Test not found"}),
		},
		{
			name: "not found for students", method: http.MethodGet, path: "/api/tests/" + unknownID, token: studentToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "Test not found"}),
		},
		{name: "staff see the answer key", method: http.MethodGet, path: path, token: getToken(t, teacher), wantData: marshallObj(t, test)},
		{name: "staff see unassigned tests", method: http.MethodGet, path: "/api/tests/" + unassigned.ID, token: getToken(t, teacher), wantData: marshallObj(t, unassigned)},
		{name: "students do not", method: http.MethodGet, path: path, token: studentToken, wantData: marshallObj(t, test.StudentView())},
		{
			name: "student not enrolled", method: http.MethodGet, path: path, token: getToken(t, carol),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "hidden assignment", method: http.MethodGet, path: "/api/tests/" + hidden.ID, token: studentToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "test not assigned", method: http.MethodGet, path: "/api/tests/" + unassigned.ID, token: studentToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
	})
}

func Test_catalogApi(t *testing.T) {
	app := setup(t)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)
	teacherToken, studentToken := getToken(t, teacher), getToken(t, student)

	runHTTPTests(t, app, []httpTest{
		{name: "no categories", method: http.MethodGet, path: "/api/categories", token: studentToken, wantData: marshallList(t)},
		{name: "no units", method: http.MethodGet, path: "/api/units", token: studentToken, wantData: marshallList(t)},
		{
			name: "students cannot create categories", method: http.MethodPost, path: "/api/categories", token: studentToken,
			body: marshallObj(t, catalog.NewLabel{Name: "Maths"}), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "blank category", method: http.MethodPost, path: "/api/categories", token: teacherToken,
			body: marshallObj(t, catalog.NewLabel{Name: " "}), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"name": "this field cannot be blank"}),
		},
	})

	post := func(t *testing.T, path string, nl catalog.NewLabel) []byte {
		req, rec := newAuthRequest(http.MethodPost, path, teacherToken, marshallObj(t, nl))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return rec.Body.Bytes()
	}

	var maths, arts catalog.Category
	require.NoError(t, jsonUnmarshal(post(t, "/api/categories", catalog.NewLabel{Name: "Maths", Description: "Numbers"}), &maths))
	require.NoError(t, jsonUnmarshal(post(t, "/api/categories", catalog.NewLabel{Name: "Arts"}), &arts))
	var unit catalog.Unit
	require.NoError(t, jsonUnmarshal(post(t, "/api/units", catalog.NewLabel{Name: "Chapter 1"}), &unit))

	runHTTPTests(t, app, []httpTest{
		{
			name: "duplicate category", method: http.MethodPost, path: "/api/categories", token: teacherToken,
			body: marshallObj(t, catalog.NewLabel{Name: "MATHS"}), wantCode: http.StatusConflict,
			wantData: marshallObj(t, httpErr{Error: "Category already exists"}),
		},
		{name: "categories by name", method: http.MethodGet, path: "/api/categories", token: studentToken, wantData: marshallList(t, arts, maths)},
		{name: "units", method: http.MethodGet, path: "/api/units", token: studentToken, wantData: marshallList(t, unit)},
	})
}
