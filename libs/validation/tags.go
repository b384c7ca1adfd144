package validation

import (
	"reflect"
	"strings"
)

// jsonFieldName reports fields by their JSON name in error messages
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
