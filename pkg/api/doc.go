// Package api defines the wire types for the sigil REST API: request and
// response DTOs, the uniform error envelope, and input validation.
//
// DTOs are plain immutable values validated at the transport boundary.
// Validation collects every field failure into a single field→message map
// so clients see all problems at once.
package api
