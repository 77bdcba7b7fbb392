package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	lru "github.com/hashicorp/golang-lru"
	"github.com/puzpuzpuz/xsync/v3"
)

// Validator is implemented by structured types that check their own invariants.
// Validate is called before a value is encoded and after it has been decoded.
type Validator interface {
	Validate() error
}

var validatorType = reflect.TypeFor[Validator]()

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry caches the type adapters used for structured values.
// The zero value is not usable, create registries with NewRegistry.
// A nil *Registry is valid and builds a fresh adapter for every call.
type Registry struct {
	adapters *xsync.MapOf[reflect.Type, *typeAdapter]
	bounded  *lru.Cache
}

// NewRegistry creates a new registry. A size <= 0 creates an unbounded
// registry, otherwise at most size adapters are kept (least recently used
// adapters are evicted first).
func NewRegistry(size int) *Registry {
	if size > 0 {
		if cache, err := lru.New(size); err == nil {
			return &Registry{bounded: cache}
		}
	}
	return &Registry{adapters: xsync.NewMapOf[reflect.Type, *typeAdapter]()}
}

// Len returns the number of cached adapters
func (r *Registry) Len() int {
	switch {
	case r == nil:
		return 0
	case r.bounded != nil:
		return r.bounded.Len()
	default:
		return r.adapters.Size()
	}
}

// adapter returns the adapter for t, building it on first use. Two goroutines
// racing on the same type may both build it; either result is fine.
func (r *Registry) adapter(t reflect.Type) *typeAdapter {
	if t == nil {
		t = reflect.TypeFor[any]()
	}
	if r == nil {
		return newTypeAdapter(t)
	}
	if r.bounded != nil {
		if a, ok := r.bounded.Get(t); ok {
			return a.(*typeAdapter)
		}
		a := newTypeAdapter(t)
		r.bounded.Add(t, a)
		return a
	}
	a, _ := r.adapters.LoadOrCompute(t, func() *typeAdapter {
		return newTypeAdapter(t)
	})
	return a
}

// --------------------------------------------------------------------------
// Type Adapter
// --------------------------------------------------------------------------

// typeAdapter holds everything needed to serialize and validate one type
type typeAdapter struct {
	name      string
	nillable  bool
	validates bool
}

func newTypeAdapter(t reflect.Type) *typeAdapter {
	a := &typeAdapter{name: t.String()}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		a.nillable = true
	case reflect.Interface:
		// the dynamic value decides
		a.nillable = true
		a.validates = true
		return a
	}
	a.validates = t.Implements(validatorType) || reflect.PointerTo(t).Implements(validatorType)
	return a
}

// marshal validates v (if supported) and serializes it as JSON
func (a *typeAdapter) marshal(v any) ([]byte, error) {
	if err := a.validate(v); err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &ValidationError{Target: a.name, Err: err}
	}
	return data, nil
}

// unmarshal decodes exactly one JSON document from data into out (a pointer)
func (a *typeAdapter) unmarshal(data []byte, out any) error {
	if !a.nillable && bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return &ValidationError{Target: a.name, Err: errors.New("null is not a valid value")}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return &ValidationError{Target: a.name, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &ValidationError{Target: a.name, Err: fmt.Errorf("unexpected data after JSON document")}
	}

	return a.validate(reflect.ValueOf(out).Elem().Interface())
}

// validate runs the Validate hook for values whose type (or pointer type) implements Validator
func (a *typeAdapter) validate(v any) error {
	if !a.validates || v == nil {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}

	val, ok := v.(Validator)
	if !ok {
		ptr := reflect.New(reflect.TypeOf(v))
		ptr.Elem().Set(reflect.ValueOf(v))
		if val, ok = ptr.Interface().(Validator); !ok {
			return nil
		}
	}

	if err := val.Validate(); err != nil {
		return &ValidationError{Target: a.name, Err: err}
	}
	return nil
}
