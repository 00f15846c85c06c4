package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is wrapped by DecodeError when a required field is absent or null.
var ErrMissingField = errors.New("missing required field")

var errNotObject = errors.New("expected a JSON object")

// DecodeError is returned when an API response does not have the expected shape.
//
// Entity is the outermost entity being decoded and Field the dotted path of
// the offending field below it (empty when the entity itself is malformed).
type DecodeError struct {
	Entity string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("decode %s: field %q: %v", e.Entity, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// fields reads the members of one JSON object into typed destinations.
//
// The first failure is kept and every later call becomes a no-op, so an
// UnmarshalJSON method can list its fields and check err once at the end.
type fields struct {
	entity string
	raw    map[string]json.RawMessage
	err    error
}

func readObject(entity string, data []byte) *fields {
	f := &fields{entity: entity}

	if err := json.Unmarshal(data, &f.raw); err != nil {
		f.err = &DecodeError{Entity: entity, Err: err}
		return f
	}
	if f.raw == nil {
		f.err = &DecodeError{Entity: entity, Err: errNotObject}
	}
	return f
}

// required decodes key into dst, failing when the key is absent or null.
func (f *fields) required(key string, dst any) {
	if f.err != nil {
		return
	}
	v, ok := f.raw[key]
	if !ok || isNull(v) {
		f.err = &DecodeError{Entity: f.entity, Field: key, Err: ErrMissingField}
		return
	}
	f.decode(key, v, dst)
}

// optional decodes key into dst when it is present and not null.
func (f *fields) optional(key string, dst any) {
	if f.err != nil {
		return
	}
	v, ok := f.raw[key]
	if !ok || isNull(v) {
		return
	}
	f.decode(key, v, dst)
}

func (f *fields) decode(key string, v json.RawMessage, dst any) {
	err := json.Unmarshal(v, dst)
	if err == nil {
		return
	}

	var nested *DecodeError
	if errors.As(err, &nested) {
		field := key
		if nested.Field != "" {
			field += "." + nested.Field
		}
		f.err = &DecodeError{Entity: f.entity, Field: field, Err: nested.Err}
		return
	}

	f.err = &DecodeError{Entity: f.entity, Field: key, Err: err}
}

// decodeRoot unmarshals a top-level document, reporting syntax errors as
// *DecodeError like every other malformed response.
func decodeRoot(entity string, data []byte, dst any) error {
	err := json.Unmarshal(data, dst)
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return &DecodeError{Entity: entity, Err: err}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
