// Package email delivers transactional mail through Postmark, with a
// logging sender for development.
package email
