package utils

import (
	"encoding/json"
)

// MarshalToJSON encodes input for a JSON column.
func MarshalToJSON[T any](input T) ([]byte, error) {
	return json.Marshal(input)
}

// UnmarshalFromJSON decodes a JSON column. Empty data leaves output untouched.
func UnmarshalFromJSON[T any](data []byte, output *T) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, output)
}
