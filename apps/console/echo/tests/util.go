package tests

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	. "github.com/lgoenaga/front-gea-cesde-sub000/apps/console/echo"
	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
	"github.com/lgoenaga/front-gea-cesde-sub000/storage/database/inmem"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

var (
	admin       = user.User{ID: 1, Username: "admin", Email: "admin@cesde.edu.co", Active: true, Roles: []user.RoleName{user.RoleAdmin}}
	coordinator = user.User{ID: 4, Username: "lrestrepo", Email: "lrestrepo@cesde.edu.co", Active: true, Roles: []user.RoleName{user.RoleCoordinator}}
	professor   = user.User{ID: 9, Username: "jgomez", Email: "jgomez@cesde.edu.co", Active: true, Roles: []user.RoleName{user.RoleProfessor}}
)

type console struct {
	backend *testutil.Backend
	logger  *testutil.Logger
	sess    *session.Session
	app     *Server
}

func setup(t *testing.T) *console {
	t.Helper()

	conf := &core.Config{Env: "TEST", TestMode: true, AppName: "GEA CESDE", Build: "test"}

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	academic.InitValidators(validate)

	backend := testutil.NewBackend(t)
	logger := &testutil.Logger{}
	sess, err := session.New(inmemdb.NewSessionStorage(), logger)
	require.NoError(t, err)

	client, err := api.New(api.Options{BaseURL: backend.URL, Timeout: time.Second, Tokens: sess, Logger: logger})
	require.NoError(t, err)

	app := NewServer(Deps{
		Conf:       conf,
		Logger:     logger,
		Session:    sess,
		Services:   NewServices(client),
		Validate:   validate,
		Translator: translator,
	})
	return &console{backend: backend, logger: logger, sess: sess, app: app}
}

// signIn starts a session as usr without going through the login page.
func (c *console) signIn(t *testing.T, usr user.User) {
	t.Helper()
	token := testutil.Token(t, usr.Username, time.Now().Add(time.Hour))
	require.NoError(t, c.sess.Start(token, usr, time.Time{}))
}

func (c *console) get(target string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, target, nil)
}

func (c *console) post(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, target, form)
}

func (c *console) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c.app.ServeHTTP(rec, req)
	return rec
}

func location(rec *httptest.ResponseRecorder) string {
	return rec.Header().Get(echo.HeaderLocation)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}
