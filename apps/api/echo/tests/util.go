package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/tracklearn/apps/api/echo"
	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/catalog"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/result"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/services/email"
	"github.com/trezcool/tracklearn/services/logger"
	"github.com/trezcool/tracklearn/storage/database/inmem"
	"github.com/trezcool/tracklearn/tests"
)

var (
	conf     *core.Config
	usrRepo  user.Repository
	clsRepo  classroom.Repository
	quizRepo quiz.Repository
	catRepo  catalog.Repository
	asgRepo  assignment.Repository
	resRepo  result.Repository
	mailSvc  *emailsvc.ConsoleService

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func setup(t *testing.T) *echoapi.Server {
	t.Helper()
	conf = testutil.NewConfig()

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	clsRepo = inmemdb.NewClassroomRepository(db)
	quizRepo = inmemdb.NewQuizRepository(db)
	catRepo = inmemdb.NewCatalogRepository(db)
	asgRepo = inmemdb.NewAssignmentRepository(db)
	resRepo = inmemdb.NewResultRepository(db)

	// set up services
	appLogger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	mailSvc = emailsvc.NewConsoleServiceMock(conf)
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)

	// set up server
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        appLogger,
		UserSvc:       user.NewService(usrRepo),
		ClassroomSvc:  classroom.NewService(clsRepo, usrRepo),
		QuizSvc:       quiz.NewService(quizRepo, catRepo),
		CatalogSvc:    catalog.NewService(catRepo),
		AssignmentSvc: assignment.NewService(asgRepo, clsRepo, quizRepo, catRepo, mailSvc, appLogger),
		ResultSvc:     result.NewService(resRepo, usrRepo, clsRepo, quizRepo),
		Validate:      validate,
		Translator:    translator,
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, "unexpected status code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// runHTTPTests serves every test case against app.
func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
