// Package jwt implements HMAC-SHA256 token signing and verification for
// member sessions. Tokens carry the member ID, tenant affiliation, email
// and role; verification rejects any algorithm other than HS256.
package jwt
