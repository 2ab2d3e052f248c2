package listmanager

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FormValue is one text field of a multipart form.
type FormValue struct {
	Name  string
	Value string
}

// field is a settable view over one struct field of a record.
type field struct {
	name   string
	upload string
	value  reflect.Value
}

// fieldName is the form name of a struct field: the form tag, else the
// json tag, else the Go name. "-" hides the field.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" {
			return name
		}
	}
	return f.Name
}

func fields(v reflect.Value) []field {
	var out []field
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			out = append(out, fields(fv)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if upload := f.Tag.Get("upload"); upload != "" {
			out = append(out, field{name: upload, upload: upload, value: fv})
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		out = append(out, field{name: name, value: fv})
	}
	return out
}

func structValue(record any) (reflect.Value, error) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil record")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("record must be a struct, got %s", v.Kind())
	}
	return v, nil
}

// FormValues lists the text fields a record is submitted with. Upload
// fields travel as files and nil pointers are left out.
func FormValues(record any) ([]FormValue, error) {
	v, err := structValue(record)
	if err != nil {
		return nil, err
	}
	var out []FormValue
	for _, f := range fields(v) {
		if f.upload != "" {
			continue
		}
		fv := f.value
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		out = append(out, FormValue{Name: f.name, Value: formatValue(fv)})
	}
	return out, nil
}

// UploadFields lists the file fields declared with an `upload` tag.
func UploadFields(record any) []string {
	v, err := structValue(record)
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range fields(v) {
		if f.upload != "" {
			out = append(out, f.upload)
		}
	}
	return out
}

// SetField assigns a textual value to the field with the given form name,
// converting it to the field's kind. record must be a pointer.
func SetField(record any, name, value string) error {
	v := reflect.ValueOf(record)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("SetField needs a non-nil pointer, got %T", record)
	}
	sv, err := structValue(record)
	if err != nil {
		return err
	}
	for _, f := range fields(sv) {
		if f.name == name {
			if err := assign(f.value, value); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown field %q", name)
}

// GetField returns the textual value of a field by form name.
func GetField(record any, name string) (string, bool) {
	sv, err := structValue(record)
	if err != nil {
		return "", false
	}
	for _, f := range fields(sv) {
		if f.name == name {
			return formatValue(f.value), true
		}
	}
	return "", false
}

// PatchValue renders a decoded JSON value the way a form field carries
// it: null is empty and numbers never use exponent notation.
func PatchValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	}
	return fmt.Sprint(v)
}

func assign(v reflect.Value, s string) error {
	if v.Kind() == reflect.Pointer {
		if s == "" {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		p := reflect.New(v.Type().Elem())
		if err := assign(p.Elem(), s); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}

	if v.Type() == timeType {
		if s == "" {
			v.Set(reflect.ValueOf(time.Time{}))
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse("2006-01-02", s)
		}
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
		return nil
	}

	s = strings.TrimSpace(s)
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		if s == "" {
			v.SetBool(false)
			return nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			v.SetInt(0)
			return nil
		}
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			v.SetUint(0)
			return nil
		}
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			v.SetFloat(0)
			return nil
		}
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}
