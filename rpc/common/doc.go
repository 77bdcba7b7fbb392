// Package common provides the data structures and utilities shared by the
// cloudkv client, its transports and the command-line interface.
//
// The package focuses on:
//   - Wire models of the cloudkv HTTP API
//   - Configuration of clients and transports
//   - The error taxonomy (usage errors and response errors)
//   - Custom logging implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - NamespaceDetails, KeyRecord, KeysResponse: Read-only response models.
//     They implement codec.Validator so that responses are validated when
//     they are decoded.
//
//   - ClientConfig: Base URL, per-call timeout, retries, connection pool and
//     codec settings. DefaultBaseURL honours the CLOUDKV_BASE_URL environment
//     variable.
//
//   - ResponseError: Returned for every non 2xx response, it carries the
//     status code and the raw response text.
//
//   - ErrUsage: Matched by all errors detected locally before any request is
//     sent (empty key, missing write token, unopened client, bad config).
//
//   - Logger: Custom logging implementation writing "LEVEL | name | message"
//     lines to stderr.
package common
