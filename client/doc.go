// Package client implements a small HTTP/1.1 client that writes requests
// directly to a TCP or TLS socket and reads the raw response.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithCompression(),
//		client.WithMaxRedirects(5),
//	)
//
// # Making Requests
//
// [Client.Get] and [Client.Post] run one logical call, following 301 and
// 302 redirects up to the configured limit:
//
//	resp, err := c.Get(ctx, "http://example.com/path?a=1")
//
//	fields := client.NewFields()
//	fields.Set("name", "alice")
//	resp, err = c.Post(ctx, "https://example.com/users", fields, client.JSONContentType)
//
// Every request carries "Connection: close" and is read until the peer
// closes the socket. Responses using chunked transfer encoding are
// returned undecoded.
//
// The last response stays available through [Client.ResponseHeader],
// [Client.ResponseBody] and friends, also after a call failed with a
// status of 400 or above.
//
// # Headers
//
// Headers added with [Client.AddHeader] are sent on following calls in
// the order they were added. They are cleared at the start of the call
// after one that sent a body, or before every call with
// [WithStrictHeaderReset].
//
// # Downloading Files
//
// [Client.Download] saves the body of a GET to disk:
//
//	path, err := c.Download(ctx, "http://example.com/file.bin", "/var/data", "",
//		client.WithChecksum(sha256.New(), expectedHex),
//	)
//
// For lower-level control see the
// [github.com/adamwoolhether/sockhttp/client/download] package.
package client
