// Package slug generates DNS-label-safe identifiers from display names.
// Slugs serve as subdomain labels, so output is restricted to lowercase
// ASCII letters, digits and single dashes.
package slug
