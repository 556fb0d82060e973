// Package transport exposes the sigil auth core over HTTP: routing,
// request handlers, cross-cutting middleware, the server lifecycle, and the
// single failure responder that turns every error into the uniform JSON
// envelope.
package transport
