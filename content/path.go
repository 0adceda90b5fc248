package content

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"docsite/types"
)

// ValueAtPath reads a dotted path like "pages.home.hero.title" from any
// value. Path segments resolve struct fields by json tag, slice elements by
// index, and map entries by key. When the path lands on an EditableField the
// field's current value is returned. Missing segments return ok=false, never
// a panic.
func ValueAtPath(obj interface{}, path string) (interface{}, bool) {
	v, ok := walk(reflect.ValueOf(obj), path)
	if !ok {
		return nil, false
	}
	if ef, isField := v.Interface().(types.EditableField); isField {
		return ef.Value, true
	}
	return v.Interface(), true
}

// FieldAtPath reads the EditableField at a dotted path. ok is false when the
// path is missing or does not address a field.
func FieldAtPath(obj interface{}, path string) (types.EditableField, bool) {
	v, ok := walk(reflect.ValueOf(obj), path)
	if !ok {
		return types.EditableField{}, false
	}
	ef, isField := v.Interface().(types.EditableField)
	return ef, isField
}

// setValueAtPath writes value into the addressable content tree rooted at
// ptr. A path landing on an EditableField updates its Value; a path landing
// on a plain string replaces it.
func setValueAtPath(ptr interface{}, path, value string) error {
	root := reflect.ValueOf(ptr)
	if root.Kind() != reflect.Ptr || root.IsNil() {
		return fmt.Errorf("content root must be a non-nil pointer")
	}

	v, ok := walk(root.Elem(), path)
	if !ok {
		return fmt.Errorf("path %q does not exist", path)
	}
	if !v.CanSet() {
		return fmt.Errorf("path %q is not settable", path)
	}

	switch {
	case v.Type() == reflect.TypeOf(types.EditableField{}):
		v.FieldByName("Value").SetString(value)
	case v.Kind() == reflect.String:
		v.SetString(value)
	default:
		return fmt.Errorf("path %q addresses a %s, not an editable value", path, v.Kind())
	}
	return nil
}

// walk resolves each dotted segment in turn, returning ok=false on the first
// missing one
func walk(v reflect.Value, path string) (reflect.Value, bool) {
	if path == "" {
		return v, false
	}
	for _, seg := range strings.Split(path, ".") {
		for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return v, false
			}
			v = v.Elem()
		}

		switch v.Kind() {
		case reflect.Struct:
			field, ok := fieldByJSONTag(v, seg)
			if !ok {
				return v, false
			}
			v = field
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= v.Len() {
				return v, false
			}
			v = v.Index(idx)
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return v, false
			}
			elem := v.MapIndex(reflect.ValueOf(seg))
			if !elem.IsValid() {
				return v, false
			}
			v = elem
		default:
			return v, false
		}
	}
	return v, true
}

// fieldByJSONTag finds the struct field whose json tag (or, failing that,
// lowercased name) matches seg
func fieldByJSONTag(v reflect.Value, seg string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if tag == seg {
			return v.Field(i), true
		}
	}
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Name, seg) {
			return v.Field(i), true
		}
	}
	return v, false
}
