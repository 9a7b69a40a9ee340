package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray is a custom type stored as JSONB.
type StringArray []string

// Scan implements sql.Scanner for StringArray.
// Used by GORM to read JSONB data from the database.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value implements driver.Valuer for StringArray.
// Empty arrays are stored as [] instead of null.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Ingredient is a single recipe ingredient.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

// IngredientList is stored as a JSONB array of ingredient objects.
type IngredientList []Ingredient

// Scan implements sql.Scanner for IngredientList.
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*l = IngredientList{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer for IngredientList.
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}
