package common

import (
	"errors"
	"time"
)

// --------------------------------------------------------------------------
// HTTP protocol constants
// --------------------------------------------------------------------------

const (
	// StatusNotFound is returned by the get endpoint for missing keys.
	// It is a success code, the body is empty.
	StatusNotFound = 244

	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderTTL           = "TTL"

	PathCreate = "create"
)

// --------------------------------------------------------------------------
// Response Models
// --------------------------------------------------------------------------

// NamespaceDetails is returned when a namespace is created
type NamespaceDetails struct {
	// BaseURL the namespace was created at
	BaseURL string `json:"base_url"`
	// ReadToken grants get and list access
	ReadToken string `json:"read_token"`
	// WriteToken grants set and delete access
	WriteToken string `json:"write_token"`
	// CreatedAt is the creation timestamp of the namespace
	CreatedAt time.Time `json:"created_at"`
}

// Validate implements codec.Validator
func (d NamespaceDetails) Validate() error {
	if d.ReadToken == "" || d.WriteToken == "" {
		return errors.New("read_token and write_token are required")
	}
	if d.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	return nil
}

// KeyRecord describes one stored value. Records are snapshots, they are not
// updated when the value changes.
type KeyRecord struct {
	// URL of the key/value
	URL string `json:"url" yaml:"url"`
	// Key is the key itself
	Key string `json:"key" yaml:"key"`
	// ContentType set in the datastore, empty if none was set
	ContentType string `json:"content_type" yaml:"content_type"`
	// Size of the value in bytes
	Size int64 `json:"size" yaml:"size"`
	// CreatedAt is the creation timestamp of the key/value
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	// Expiration is the expiration timestamp of the key/value
	Expiration time.Time `json:"expiration" yaml:"expiration"`
}

// Validate implements codec.Validator
func (k KeyRecord) Validate() error {
	if k.URL == "" || k.Key == "" {
		return errors.New("url and key are required")
	}
	if k.Size < 0 {
		return errors.New("size must not be negative")
	}
	return nil
}

// TTL returns the retention window of the value
func (k KeyRecord) TTL() time.Duration {
	return k.Expiration.Sub(k.CreatedAt)
}

// KeysResponse is the body of a key listing
type KeysResponse struct {
	Keys []KeyRecord `json:"keys"`
}

// Validate implements codec.Validator
func (r KeysResponse) Validate() error {
	for _, k := range r.Keys {
		if err := k.Validate(); err != nil {
			return err
		}
	}
	return nil
}
