// Package ledgersdk provides a typed Go client for the ledger service.
//
// The request/response types here are shared with the service's HTTP layer
// so the wire format is defined exactly once. The client covers the small
// surface peers and operators need: registering clients, reading the chain,
// and requesting counter-signatures.
package ledgersdk
