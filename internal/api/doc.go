// Package api handles incoming HTTP requests for the recipe API: request
// decoding and validation, delegation to the ownership-scoped services, and
// response formatting. Every resource handler takes the acting user from the
// request context set by the authentication middleware and passes it down
// explicitly; errors are translated to status codes by HandleAPIError so that
// foreign-owned and missing resources are indistinguishable.
package api
