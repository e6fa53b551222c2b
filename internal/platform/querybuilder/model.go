package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an insert from the exported db-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := dbFields(model)
	if err != nil {
		return "", nil, err
	}

	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// Columns lists the db tags of model in field order, for SELECT lists that
// must match a scan target.
func Columns(model any) ([]string, error) {
	cols, _, err := dbFields(model)
	return cols, err
}

func dbFields(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("%w: model cannot be nil", ErrIncomplete)
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w: model must be a struct, got %s", ErrIncomplete, value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("%w: model has no db columns", ErrIncomplete)
	}

	return cols, vals, nil
}
