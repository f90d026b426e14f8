package utils

import (
	"fmt"
	"reflect"
)

// ColumnList returns the list of "db" tags of a db model struct, prefixed if requested.
// Panics when a field is missing the tag, so that a malformed db model fails loudly at init time.
func ColumnList[DBModel any](prefixes ...string) []string {
	var dbModel DBModel
	modelType := reflect.TypeOf(dbModel)

	columns := make([]string, 0, modelType.NumField())
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("db")
		if !ok {
			panic(fmt.Sprintf("missing db tag on field %s of %T", field.Name, dbModel))
		}
		if tag == "-" {
			continue
		}
		column := tag
		for _, prefix := range prefixes {
			column = prefix + "." + column
		}
		columns = append(columns, column)
	}
	return columns
}
