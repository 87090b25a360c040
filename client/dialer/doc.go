// Package dialer opens the TCP or TLS connection for a single request hop.
//
// Connection failures fall in two classes. A hard failure carries a
// system error, such as a refused connection or a failed handshake, and is
// returned immediately. A soft failure is a dial that produced neither a
// connection nor an error, or one that failed with a transient resource
// errno (EMFILE, ENFILE, ENOBUFS, ENOMEM, EAGAIN). Soft failures are
// retried after a short pause while the shared Budget allows it.
package dialer
