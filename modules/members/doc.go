// Package members implements accounts and authentication: tenant-scoped
// member management, platform operator accounts, bcrypt credential checks
// and JWT session tokens. The Authenticator middleware turns a session
// token into the request principal; the access guard decides what that
// principal may do.
package members
