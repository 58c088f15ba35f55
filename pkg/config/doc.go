// Package config loads typed configuration structs from environment
// variables (with optional .env support for development) and caches each
// type so the whole process shares one parsed configuration.
package config
