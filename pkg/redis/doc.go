// Package redis connects to the Redis instance backing the cross-process
// tenant cache.
package redis
