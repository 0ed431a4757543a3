package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/tracklearn/apps/api/echo"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/tests"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Track & Learn API!", rec.Body.String())
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "User", "awe", "awe@test.cd", "mdr", user.RoleStudent)

	authFailed := marshallObj(t, httpErr{Error: "authentication failed"})
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: marshallObj(t, echoapi.LoginRequest{Username: "lol", Password: "mdr"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "wrong password", body: marshallObj(t, echoapi.LoginRequest{Username: usr.Username, Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{name: "login with username", body: marshallObj(t, echoapi.LoginRequest{Username: "AWE", Password: "mdr"})},
		{name: "login with email", body: marshallObj(t, echoapi.LoginRequest{Username: usr.Email, Password: "mdr"})},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/users/login"
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the token.. just check that it's valid
			if tt.wantCode == http.StatusOK {
				require.Equal(t, tt.wantCode, rec.Code)
				var resp echoapi.LoginResponse
				unmarshall(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, usr.ID, resp.User.ID)
				assert.Equal(t, user.RoleStudent, resp.User.Role)
				assert.NotContains(t, rec.Body.String(), "password")
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "User", "awe", "awe@test.cd", "", user.RoleTeacher)
	ghost := user.User{ID: "2f0e8d1c-9f61-4b1a-8d3e-5b7a7c1d2e3f", Username: "ghost", Role: user.RoleStudent}

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodGet, path: "/api/users/me", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "invalid token", method: http.MethodGet, path: "/api/users/me", token: "lol",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "deleted user", method: http.MethodGet, path: "/api/users/me", token: getToken(t, ghost),
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{name: "current user", method: http.MethodGet, path: "/api/users/me", token: getToken(t, usr), wantData: marshallObj(t, usr)},
	})
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", user.RoleTeacher)
	adminToken := getToken(t, admin)

	newUser := func(uname, email, role string) user.NewUser {
		return user.NewUser{
			Name:            "New " + uname,
			Username:        uname,
			Email:           email,
			Password:        "pwd",
			PasswordConfirm: "pwd",
			Role:            role,
		}
	}
	path := "/api/users/register"

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodPost, path: path, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "admins only", method: http.MethodPost, path: path, token: getToken(t, teacher),
			body: marshallObj(t, newUser("kim", "kim@test.cd", user.RoleStudent)), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "invalid role", method: http.MethodPost, path: path, token: adminToken,
			body: marshallObj(t, newUser("kim", "kim@test.cd", "lol")), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"role": "invalid role"}),
		},
		{
			name: "password mismatch", method: http.MethodPost, path: path, token: adminToken,
			body: marshallObj(t, user.NewUser{Name: "Kim", Username: "kim", Email: "kim@test.cd", Password: "a", PasswordConfirm: "b", Role: user.RoleStudent}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "username taken", method: http.MethodPost, path: path, token: adminToken,
			body: marshallObj(t, newUser("teacher", "kim@test.cd", user.RoleStudent)), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"username": user.ErrUsernameExists.Error()}),
		},
		{
			name: "email taken", method: http.MethodPost, path: path, token: adminToken,
			body: marshallObj(t, newUser("kim", "TEACHER@test.cd", user.RoleStudent)), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
	})

	t.Run("student registered", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, adminToken, marshallObj(t, newUser("Kim", "kim@test.cd", user.RoleStudent)))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var usr user.User
		unmarshall(t, rec, &usr)
		assert.NotEmpty(t, usr.ID)
		assert.Equal(t, "kim", usr.Username)
		assert.Equal(t, user.RoleStudent, usr.Role)

		stored, err := usrRepo.GetUser(req.Context(), user.GetFilter{ID: usr.ID})
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("pwd"))
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", user.RoleStudent)

	now := time.Now()
	unrefreshableToken, err := echoapi.GenerateToken(&echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   student.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		Username:     student.Username,
		Role:         student.Role,
	}, conf)
	require.NoError(t, err)

	path := "/api/users/token-refresh"
	runHTTPTests(t, app, []httpTest{
		{name: "auth required", method: http.MethodPost, path: path, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "refresh period expired", method: http.MethodPost, path: path, token: unrefreshableToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "refresh has expired"}),
		},
	})

	t.Run("token refreshed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, student))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp echoapi.TokenResponse
		unmarshall(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
	})
}
