package codec

import (
	"bytes"
	"reflect"
	"unicode/utf8"
)

const (
	// TextContentType is stored with Text values
	TextContentType = "text/plain"
	// StructuredContentType marks a value as a JSON document that must be
	// decoded by validating it against a target type.
	StructuredContentType = "application/json; pydantic"
)

// --------------------------------------------------------------------------
// Value Definition
// --------------------------------------------------------------------------

// Value is a value that can be written to the store.
// The set of implementations is closed: Text, Binary and the values created by JSON.
type Value interface {
	encode(r *Registry) (data []byte, contentType string, err error)
}

// Text is a UTF-8 string value
type Text string

func (t Text) encode(_ *Registry) ([]byte, string, error) {
	return []byte(t), TextContentType, nil
}

// Binary is a raw byte value, it is stored without a content type
type Binary []byte

func (b Binary) encode(_ *Registry) ([]byte, string, error) {
	return b, "", nil
}

// structured is a value serialized as JSON through the adapter of typ
type structured struct {
	typ   reflect.Type
	value any
}

func (s structured) encode(r *Registry) ([]byte, string, error) {
	data, err := r.adapter(s.typ).marshal(s.value)
	if err != nil {
		return nil, "", err
	}
	return data, StructuredContentType, nil
}

// JSON returns a structured value serialized through the declared type T.
// T may differ from the dynamic type of v, e.g. an interface or a base type.
func JSON[T any](v T) Value {
	return structured{typ: reflect.TypeFor[T](), value: v}
}

// ValueOf picks the encoding for v from its shape: strings become Text,
// byte slices and buffers become Binary, values are passed through unchanged,
// everything else is structured through its dynamic type.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case Value:
		return val
	case string:
		return Text(val)
	case []byte:
		return Binary(val)
	case *bytes.Buffer:
		if val == nil {
			return Binary(nil)
		}
		return Binary(val.Bytes())
	default:
		return structured{typ: reflect.TypeOf(v), value: v}
	}
}

// --------------------------------------------------------------------------
// Encode / Decode
// --------------------------------------------------------------------------

// Encode returns the wire bytes and the content type for value.
// An empty content type means that no content type should be sent.
func Encode(r *Registry, value Value) (data []byte, contentType string, err error) {
	if value == nil {
		value = ValueOf(nil)
	}
	return value.encode(r)
}

// Decode converts data into a T.
//
// A nil data slice means the key was absent and def is returned. Data with the
// structured content type (or any data when forceValidate is set) is validated
// as JSON against T. Otherwise T must be []byte, string or *bytes.Buffer,
// any other target yields a *ContentTypeMismatchError.
func Decode[T any](r *Registry, data []byte, contentType string, def T, forceValidate bool) (T, error) {
	if data == nil {
		return def, nil
	}
	if forceValidate || contentType == StructuredContentType {
		return DecodeJSON[T](r, data)
	}

	var out T
	switch target := any(&out).(type) {
	case *[]byte:
		*target = data
	case *string:
		if !utf8.Valid(data) {
			return out, ErrInvalidUTF8
		}
		*target = string(data)
	case **bytes.Buffer:
		*target = bytes.NewBuffer(bytes.Clone(data))
	default:
		return out, &ContentTypeMismatchError{
			ContentType: contentType,
			Target:      reflect.TypeFor[T]().String(),
		}
	}
	return out, nil
}

// DecodeJSON validates data as a JSON document of type T
func DecodeJSON[T any](r *Registry, data []byte) (T, error) {
	var out T
	if err := r.adapter(reflect.TypeFor[T]()).unmarshal(data, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
