package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/chat"
	"github.com/edulineal/backend/core/progress"
	"github.com/edulineal/backend/core/user"
	"github.com/edulineal/backend/storage/inmem"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type testEnv struct {
	server  *Server
	conf    *core.Config
	usrSvc  user.ServiceInterface
	usrRepo *inmem.UserRepository
	store   *inmem.ProgressStore
	ai      *fakeAIClient
}

// fakeAIClient streams canned deltas, or fails with Err.
type fakeAIClient struct {
	Deltas []string
	Err    error
}

func (c *fakeAIClient) StreamChat(_ context.Context, _ []chat.Message, onDelta func(delta string)) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	var full string
	for _, d := range c.Deltas {
		full += d
		if onDelta != nil {
			onDelta(d)
		}
	}
	return full, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestConfig() *core.Config {
	conf := &core.Config{
		TestMode:  true,
		AppName:   "EduLineal",
		SecretKey: "test-secret",
	}
	conf.Server.JWTExpirationDelta = 10 * time.Minute
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	return conf
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conf := newTestConfig()
	usrRepo := inmem.NewUserRepository()
	store := inmem.NewProgressStore()
	aiClient := &fakeAIClient{Deltas: []string{"Hola, ", "¿en qué te ayudo?"}}
	usrSvc := user.NewService(usrRepo, nil, conf)

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server := NewServer("", ServerDeps{
		Conf:        conf,
		Logger:      nopLogger{},
		UserSvc:     usrSvc,
		ProgressSvc: progress.NewService(store),
		AIClient:    aiClient,
		Validate:    validate,
		Translator:  translator,
	})

	return &testEnv{
		server:  server,
		conf:    conf,
		usrSvc:  usrSvc,
		usrRepo: usrRepo,
		store:   store,
		ai:      aiClient,
	}
}

func (env *testEnv) createUser(t *testing.T, firstName, lastName, email, role string, active bool) user.User {
	t.Helper()
	usr := user.User{
		ID:        email, // deterministic IDs keep tests readable
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, usr.SetPassword("S3cureStuff"))
	usr, err := env.usrRepo.CreateUser(usr)
	require.NoError(t, err)
	return usr
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(env.conf, GetUserClaims(env.conf, usr))
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echoHeaderContentType, "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
