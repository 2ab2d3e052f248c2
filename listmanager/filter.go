package listmanager

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Flatten joins every field value of a record with single spaces, in
// declaration order, the way the search box has always matched rows.
// Embedded structs are expanded in place; fields hidden from JSON are skipped.
func Flatten(record any) string {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return formatValue(v)
	}

	var parts []string
	collectFields(v, &parts)
	return strings.Join(parts, " ")
}

func collectFields(v reflect.Value, parts *[]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name == "-" {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			collectFields(fv, parts)
			continue
		}
		if !f.IsExported() {
			continue
		}
		*parts = append(*parts, formatValue(fv))
	}
}

var timeType = reflect.TypeOf(time.Time{})

func formatValue(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Type() == timeType && v.CanInterface() {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())
	}
	if !v.CanInterface() {
		return ""
	}
	return fmt.Sprint(v.Interface())
}

// Filter keeps the records whose flattened values contain term,
// case-insensitively. An empty term keeps everything.
func Filter[T any](items []T, term string) []T {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(Flatten(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate returns the 1-based page of the given size; out-of-range pages
// are empty.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 || page-1 >= TotalPages(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}

func TotalPages(count, size int) int {
	if size < 1 || count <= 0 {
		return 0
	}
	pages := count / size
	if count%size != 0 {
		pages++
	}
	return pages
}
