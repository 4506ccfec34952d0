package models

import (
	"database/sql/driver"
	"fmt"
)

// scanEnum reads a string column and rejects values outside the allowed set,
// so a bad row never makes it past the storage boundary as a "valid" status.
func scanEnum(src interface{}, typeName string, valid func(string) bool) (string, error) {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		s = ""
	default:
		return "", fmt.Errorf("%s: unsupported column type %T", typeName, src)
	}
	if !valid(s) {
		return "", fmt.Errorf("%s: invalid value %q", typeName, s)
	}
	return s, nil
}

func enumValue(s string, typeName string, valid func(string) bool) (driver.Value, error) {
	if !valid(s) {
		return nil, fmt.Errorf("%s: invalid value %q", typeName, s)
	}
	return s, nil
}
