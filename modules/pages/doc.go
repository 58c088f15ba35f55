// Package pages stores tenant-owned content pages: a per-tenant slug, a
// title and an opaque block document. Rendering is out of scope.
package pages
