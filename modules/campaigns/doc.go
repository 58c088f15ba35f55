// Package campaigns manages tenant-owned fundraising drives: goal and
// raised amounts in minor units, activity windows and shareable QR links.
package campaigns
