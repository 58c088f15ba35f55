// Package platform is the multi-tenant backend for Collectif, a hosted
// service where associations run their own donation and membership space
// under a subdomain or a custom domain.
//
// Every HTTP request is resolved to a tenant before any handler runs, and
// all tenant data access goes through a database handle scoped to that
// tenant. The building blocks live under pkg/ (tenant resolution, scoped
// persistence, authorization guards, ambient concerns) and the product
// features under modules/ (directory, members, associations, campaigns,
// donations, pages). cmd/server wires them together.
package platform
