package pages

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/tests"
)

type fixture struct {
	backend *testutil.Backend
	client  *api.Client
	logger  *testutil.Logger
	deps    Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	backend := testutil.NewBackend(t)
	logger := &testutil.Logger{}
	client, err := api.New(api.Options{
		BaseURL: backend.URL,
		Timeout: time.Second,
		Tokens:  testutil.NewMemTokens("tkn"),
		Logger:  logger,
	})
	require.NoError(t, err)

	return &fixture{
		backend: backend,
		client:  client,
		logger:  logger,
		deps:    Deps{Validate: validate, Translator: translator, Toaster: NewToaster(), Logger: logger},
	}
}

func (f *fixture) toasts() []Toast {
	return f.deps.Toaster.Drain()
}

func jsonDecode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
