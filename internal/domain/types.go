package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a set of strings stored as a JSON array in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Unparseable content decodes to an empty list.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		*l = StringList{}
		return nil
	}
	*l = out
	return nil
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Dedup returns the list without blanks or repeats, keeping first-seen order.
func (l StringList) Dedup() StringList {
	out := make(StringList, 0, len(l))
	for _, v := range l {
		if v == "" || out.Contains(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
