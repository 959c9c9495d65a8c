// Package h2client is the connection handle: one shared HTTP/2 connection to
// a fixed target, issuing independent GET requests over multiplexed streams.
//
// Cleartext targets (bare host:port or http://) use prior-knowledge h2c via
// an AllowHTTP transport; https:// targets negotiate h2 over TLS. The
// transport maintains the single persistent connection and the protocol's
// stream multiplexing makes concurrent [Client.Do] calls independent, so the
// caller needs no locking around the handle.
package h2client
