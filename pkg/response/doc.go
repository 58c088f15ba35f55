// Package response renders the standard JSON envelope and maps domain
// sentinel errors to HTTP status codes at the handler boundary.
package response
