package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jeongwook5013/SecondHand-Shop/internal/middleware"
	"github.com/jeongwook5013/SecondHand-Shop/internal/repo"
	"github.com/jeongwook5013/SecondHand-Shop/internal/service"
	"github.com/jeongwook5013/SecondHand-Shop/internal/transport"
	"github.com/jeongwook5013/SecondHand-Shop/internal/upload"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	Repo      *repo.GormRepo
	Tokens    *service.TokenService
	UploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gormRepo := &repo.GormRepo{DB: db}
	require.NoError(t, gormRepo.Migrate(context.Background()))

	tokens := &service.TokenService{Secret: []byte("test-jwt-secret"), TTL: 24 * time.Hour}
	uploadDir := t.TempDir()
	fileStore := &upload.FileStore{Dir: uploadDir, MaxSize: 10 << 20}

	userSvc := &service.UserService{Repo: gormRepo, Tokens: tokens}
	catalogSvc := &service.CatalogService{Repo: gormRepo, Uploads: fileStore}

	e := echo.New()
	Register(e, &Deps{
		UserHandler:    &UserHTTP{Svc: userSvc},
		ProductHandler: &ProductHTTP{Svc: catalogSvc, Uploads: fileStore},
		Auth:           middleware.NewBearerAuth(tokens),
		UploadDir:      uploadDir,
	})

	return &testEnv{T: t, E: e, Repo: gormRepo, Tokens: tokens, UploadDir: uploadDir}
}

// doJSON runs a request through the full router so routing, the auth gate
// and error mapping are all exercised.
func (env *testEnv) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signup(username, password, email string) {
	env.T.Helper()
	rec := env.doJSON(http.MethodPost, "/api/users/signup", transport.SignupRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(username, password string) string {
	env.T.Helper()
	rec := env.doJSON(http.MethodPost, "/api/users/login", transport.LoginRequest{
		Username: username,
		Password: password,
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Token)
	return resp.Token
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
