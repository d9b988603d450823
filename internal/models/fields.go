package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawList 是按原样存储的 JSON 数组列。入口处校验一次必须是数组，
// 之后不再解析（内容对后端透明）。
type RawList json.RawMessage

// ParseRawList validates that s is a JSON array. Empty input becomes "[]".
func ParseRawList(s string) (RawList, error) {
	if s == "" {
		return RawList("[]"), nil
	}
	b := bytes.TrimSpace([]byte(s))
	if !json.Valid(b) || len(b) == 0 || b[0] != '[' {
		return nil, fmt.Errorf("not a JSON array: %q", s)
	}
	return RawList(b), nil
}

func (l RawList) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return l, nil
}

func (l *RawList) UnmarshalJSON(b []byte) error {
	v, err := ParseRawList(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l RawList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return string(l), nil
}

func (l *RawList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = RawList("[]")
	case string:
		*l = RawList(v)
	case []byte:
		*l = RawList(append([]byte(nil), v...))
	default:
		return fmt.Errorf("cannot scan %T into RawList", src)
	}
	return nil
}

// IDList 节点 ID 列表列，JSON 数组存储，不含重复项
type IDList []uint

// ParseIDList parses a JSON array of ids, dropping duplicates while
// keeping first-occurrence order.
func ParseIDList(s string) (IDList, error) {
	if s == "" {
		return IDList{}, nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("not a JSON id array: %q", s)
	}
	out := make(IDList, 0, len(ids))
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy with id removed; changed reports whether it
// was present.
func (l IDList) Without(id uint) (out IDList, changed bool) {
	out = make(IDList, 0, len(l))
	for _, v := range l {
		if v == id {
			changed = true
			continue
		}
		out = append(out, v)
	}
	return out, changed
}

func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uint(l))
}

func (l IDList) Value() (driver.Value, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IDList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*l = IDList(ids)
	return nil
}
