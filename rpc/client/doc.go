// Package client implements the cloudkv clients. Every operation is a single
// HTTP request against the namespace identified by a read token.
//
// The package focuses on:
//   - Blocking (Client) and future based (AsyncClient) access to one namespace
//   - Provisioning of new namespaces (CreateNamespace)
//   - Encoding values through the codec package and decoding them with GetAs
//
// Key Components:
//
//   - CreateNamespace: Creates a namespace and returns its read and write tokens.
//     No client is needed, the request uses its own one-shot transport.
//
//   - Client: Blocking client. Until Open is called every request uses its own
//     unpooled connection, which is fine for scripts that send a handful of requests.
//     Set ClientConfig.RequireOpen to disable this fallback.
//
//   - AsyncClient: Runs each operation on its own goroutine and returns a Future.
//     The client must be opened first.
//
//   - GetAs / GetAsAsync: Look up a key and decode the value into a Go type.
//
// Usage Example:
//
//	details, _ := client.CreateNamespace(ctx, common.DefaultClientConfig())
//
//	kv, _ := client.ForNamespace(details, common.DefaultClientConfig())
//	err := kv.Use(func(kv *client.Client) error {
//		if _, err := kv.Set(ctx, "numbers", codec.JSON([]int{1, 2, 3}), client.WithTTL(time.Hour)); err != nil {
//			return err
//		}
//		numbers, err := client.GetAs[[]int](ctx, kv, "numbers", nil, false)
//		...
//	})
//
// Errors:
//
//	Mistakes detected before a request is sent match common.ErrUsage (empty key,
//	missing write token, unopened client). Responses with a non 2xx status code
//	are returned as *common.ResponseError.
//
// Thread Safety:
//
//	Client and AsyncClient are thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
