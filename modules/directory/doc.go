// Package directory implements the tenant directory: provisioning,
// lifecycle transitions, domain claims and the versioned settings and
// theme documents. Its store is the production tenant.Directory used by
// request resolution.
package directory
