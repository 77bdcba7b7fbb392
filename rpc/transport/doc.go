// Package transport defines the abstraction between the cloudkv client and
// the network. A transport owns the base URL and the connection handling,
// the client only deals with requests and fully read responses.
//
// Key Components:
//
//   - IClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - Request, Response: Transport independent request and response values.
//
// The HTTP implementations live in the http subpackage.
package transport
