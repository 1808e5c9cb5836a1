package tournament

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type ResponseType string

const (
	ResponseShort ResponseType = "short"
	ResponseLong  ResponseType = "long"
)

// ApplicationField is a director-defined question on the application form.
type ApplicationField struct {
	ID     string       `json:"id" validate:"required,max=64"`
	Prompt string       `json:"prompt" validate:"required,notblank,max=500"`
	Type   ResponseType `json:"type" validate:"oneof=short long"`
}

// ApplicationFields is stored as a JSON array in a single column.
type ApplicationFields []ApplicationField

// Has reports whether a field with the given id is declared.
func (f ApplicationFields) Has(id string) bool {
	for _, field := range f {
		if field.ID == id {
			return true
		}
	}
	return false
}

func (f ApplicationFields) Value() (driver.Value, error) {
	if f == nil {
		f = ApplicationFields{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *ApplicationFields) Scan(src any) error {
	return scanJSON(src, f)
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), dst)
	case []byte:
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("cannot scan %T as JSON", src)
	}
}
