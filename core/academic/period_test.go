package academic

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

func TestPeriodForm_Validate(t *testing.T) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate)

	tests := []struct {
		name    string
		form    PeriodForm
		wantErr map[string]string
	}{
		{
			name: "valid",
			form: PeriodForm{Name: " 2024-1 ", StartDate: "2024-01-15", EndDate: "2024-06-15"},
		},
		{
			name:    "end before start",
			form:    PeriodForm{Name: "2024-2", StartDate: "2024-07-15", EndDate: "2024-07-01"},
			wantErr: map[string]string{"endDate": "end date must be after the start date"},
		},
		{
			name:    "same day",
			form:    PeriodForm{Name: "2024-2", StartDate: "2024-07-15", EndDate: "2024-07-15"},
			wantErr: map[string]string{"endDate": "end date must be after the start date"},
		},
		{
			name:    "bad date",
			form:    PeriodForm{Name: "2024-2", StartDate: "15/07/2024", EndDate: "2024-12-01"},
			wantErr: map[string]string{"startDate": "enter a valid date (YYYY-MM-DD)"},
		},
		{
			name:    "blank name",
			form:    PeriodForm{Name: "   ", StartDate: "2024-01-15", EndDate: "2024-06-15"},
			wantErr: map[string]string{"name": "this field is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate(validate)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, "2024-1", tt.form.Name)
				return
			}
			fields, ok := core.FieldErrors(err, translator)
			require.True(t, ok, "err = %v", err)
			assert.Equal(t, tt.wantErr, fields)
		})
	}
}
