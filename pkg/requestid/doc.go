// Package requestid attaches a correlation identifier to every HTTP
// request and propagates it through context and structured logs.
package requestid
