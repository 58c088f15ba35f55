// Package associations manages the organization profiles owned by a
// tenant. All persistence runs through the tenant-scoped data handle.
package associations
