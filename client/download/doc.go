// Package download saves fetched response bodies to disk with optional
// checksum validation.
//
// # Single Download
//
// [Handle] resolves the destination, creates the target folder when
// needed, fetches the body and hands it to a [Filesystem]:
//
//	path, err := download.Handle(ctx, download.OSFilesystem{}, fetch,
//		"http://example.com/file.txt", "/var/data", "", logger,
//	)
//
// [OSFilesystem] writes to a temporary file alongside the destination
// path, then atomically renames it on success.
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/sockhttp/client] package, which invokes
// Handle internally and re-exports all download options as
// client.With* functions.
package download
