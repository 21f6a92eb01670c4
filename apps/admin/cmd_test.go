package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/auth"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
	"github.com/lgoenaga/front-gea-cesde-sub000/storage/database/inmem"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

var coordinator = user.User{ID: 4, Username: "lrestrepo", Email: "lrestrepo@cesde.edu.co", Active: true, Roles: []user.RoleName{user.RoleCoordinator}}

func setup(t *testing.T) (*commandLine, *testutil.Backend, *bytes.Buffer) {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := &testutil.Logger{}

	sess, err := session.New(inmemdb.NewSessionStorage(), logger)
	require.NoError(t, err)
	client, err := api.New(api.Options{BaseURL: backend.URL, Timeout: time.Second, Tokens: sess, Logger: logger})
	require.NoError(t, err)

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	var out bytes.Buffer
	return &commandLine{
		sess:       sess,
		auth:       auth.NewService(client),
		validate:   validate,
		translator: translator,
		out:        &out,
	}, backend, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
	wantOut    string
}

func Test_commandLine_login(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"login"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"login", "-user", "x"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"login", "-username", "lrestrepo"}, wantErr: errHelp},
		{name: "blank username", args: []string{"login", "-username", "   "}, pwd: "secret", wantErrStr: "username: this field is required"},
		{name: "rejected", args: []string{"login", "-username", "lrestrepo"}, pwd: "wrong", wantErrStr: "login failed: Bad credentials"},
		{name: "signed in", args: []string{"login", "-username", "LRestrepo"}, pwd: "secret", wantOut: "Signed in as lrestrepo (Coordinator)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, backend, out := setup(t)
			token := testutil.Token(t, "lrestrepo", time.Now().Add(time.Hour))
			backend.Handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
				var creds auth.Credentials
				if err := decodeJSON(r, &creds); err != nil || creds.Password != "secret" {
					testutil.WriteError(w, http.StatusUnauthorized, "Bad credentials")
					return
				}
				testutil.WriteData(w, http.StatusOK, auth.LoginResult{Token: token, User: coordinator})
			})
			readPasswordFunc = func(fd int) ([]byte, error) {
				return []byte(tt.pwd), nil
			}

			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
				assert.Contains(t, out.String(), tt.wantOut)
				assert.Equal(t, token, cli.sess.Token())
			}
		})
	}
}

func Test_commandLine_whoamiLogout(t *testing.T) {
	cli, _, out := setup(t)

	assert.Equal(t, errNotSignedIn, cli.run([]string{"admin", "whoami"}))

	token := testutil.Token(t, "lrestrepo", time.Now().Add(time.Hour))
	require.NoError(t, cli.sess.Start(token, coordinator, time.Time{}))

	require.NoError(t, cli.run([]string{"admin", "whoami"}))
	assert.Contains(t, out.String(), "lrestrepo <lrestrepo@cesde.edu.co>\nroles: COORDINATOR\n")
	assert.Contains(t, out.String(), "session expires: ")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "logout"}))
	assert.Equal(t, "Signed out.\n", out.String())
	assert.False(t, cli.sess.IsAuthenticated())

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "logout"}))
	assert.Equal(t, "No stored session.\n", out.String())
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
