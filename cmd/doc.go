// Package cmd implements the command-line interface for cloudkv. It provides
// a hierarchical command structure to create namespaces and to work with the
// values of a namespace.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, set, del, keys, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through an environment variable with the prefix
// CLOUDKV_ (e.g. CLOUDKV_READ_TOKEN), .env and .env.local files are loaded.
//
// See cloudkv -help for a list of all commands.
package cmd
