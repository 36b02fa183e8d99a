package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// FloatArray stores embedding vectors as a JSON column.
// A nil array maps to SQL NULL so "no embedding yet" stays distinct from
// a zero-length vector.
type FloatArray []float64

func (a FloatArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal([]float64(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *FloatArray) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("models.FloatArray: Scan on nil pointer")
	}
	if value == nil {
		*a = nil
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.FloatArray: unsupported Scan type %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*a = nil
		return nil
	}

	var arr []float64
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return fmt.Errorf("models.FloatArray: %w", err)
	}
	*a = arr
	return nil
}
