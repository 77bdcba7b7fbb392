// Package rpc provides the communication layer between applications and the
// cloudkv service.
//
// The package is organized into several subpackages:
//
//   - common: Protocol constants, response models, configuration, errors and logging.
//
//   - transport: The transport abstraction and its net/http implementation
//     (pooled and one-shot).
//
//   - client: The blocking and asynchronous clients and namespace provisioning.
package rpc
