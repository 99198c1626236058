package web

import (
	"reflect"
	"strings"
)

// TrimFields whitespace-trims every string field of a form struct
// before validation, so "   " fails a required check the same way ""
// does.
func TrimFields(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("TrimFields: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("TrimFields: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.String && field.CanSet() {
			field.SetString(strings.TrimSpace(field.String()))
		}
	}
}
