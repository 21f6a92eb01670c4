package echoconsole

import (
	"reflect"
	"strconv"
	"strings"
)

type fieldType string

const (
	inputText     fieldType = "text"
	inputEmail    fieldType = "email"
	inputNumber   fieldType = "number"
	inputDate     fieldType = "date"
	inputPassword fieldType = "password"
	inputTextArea fieldType = "textarea"
	inputSelect   fieldType = "select"
	inputMulti    fieldType = "multiselect"
	inputCheckbox fieldType = "checkbox"
)

type option struct {
	Value string
	Label string
}

// field is one input of an entity form. Name matches the form tag of the payload.
type field struct {
	Name     string
	Label    string
	Type     fieldType
	Required bool
	Step     string // number inputs
	Options  []option
	Help     string
}

func (f field) IsCheckbox() bool { return f.Type == inputCheckbox }
func (f field) IsSelect() bool   { return f.Type == inputSelect }
func (f field) IsMulti() bool    { return f.Type == inputMulti }
func (f field) IsTextArea() bool { return f.Type == inputTextArea }

func stringOptions(values []string, label func(string) string) []option {
	opts := make([]option, 0, len(values))
	for _, v := range values {
		l := v
		if label != nil {
			l = label(v)
		}
		opts = append(opts, option{Value: v, Label: l})
	}
	return opts
}

func idOption(id int64, label string) option {
	return option{Value: strconv.FormatInt(id, 10), Label: label}
}

// formValues flattens a payload into form tag -> values, walking embedded structs.
// Zero ids render as empty so selects start unselected.
func formValues(form interface{}) map[string][]string {
	values := make(map[string][]string)
	collectFormValues(reflect.Indirect(reflect.ValueOf(form)), values)
	return values
}

func collectFormValues(v reflect.Value, values map[string][]string) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
		if name == "" && sf.Anonymous {
			collectFormValues(fv, values)
			continue
		}
		if name == "" || name == "-" {
			continue
		}

		switch fv.Kind() {
		case reflect.String:
			values[name] = []string{fv.String()}
		case reflect.Bool:
			values[name] = []string{strconv.FormatBool(fv.Bool())}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if fv.Int() == 0 {
				values[name] = []string{""}
			} else {
				values[name] = []string{strconv.FormatInt(fv.Int(), 10)}
			}
		case reflect.Float32, reflect.Float64:
			values[name] = []string{strconv.FormatFloat(fv.Float(), 'f', -1, 64)}
		case reflect.Slice:
			if fv.Type().Elem().Kind() != reflect.String {
				continue
			}
			items := make([]string, fv.Len())
			for j := range items {
				items[j] = fv.Index(j).String()
			}
			values[name] = items
		}
	}
}
