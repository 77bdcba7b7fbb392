// Package http implements the cloudkv client transport on top of net/http.
//
// Key Components:
//
//   - NewHttpClientTransport: Pooled transport. Idle connections are kept
//     (bounded by the configured pool settings) and reused until Close.
//
//   - NewOneShotTransport: Unpooled transport with keep-alives disabled. It is
//     used for namespace creation and by unopened sync clients.
//
// Both transports retry a request only when no response was received at all
// (dial or connection errors) and never after the context is done.
//
// Thread Safety:
//
//	The transports are safe for concurrent use. Connect and Close may be
//	called while requests are in flight; in-flight requests finish with the
//	client they started with.
package http
