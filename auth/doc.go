// Package auth provides the authentication and authorization core for the
// task backend: JWT issuance and validation, credential verification against
// the user store, and the request-scoped ambient identity.
//
// Identity resolution is permissive: a missing, malformed, or
// expired bearer token yields an unauthenticated request, never a hard
// failure. Routes and services that require an identity reject it themselves
// with ErrUnauthenticated.
//
// The ambient identity is carried as a context value (WithContext /
// FromContext) for the lifetime of one request. It is never stored in a
// process-wide variable; concurrent requests each see only their own
// principal.
package auth
