// Package donations implements the giving flow: pending donations created
// from tenant sites, settlement through signed payment-processor webhooks,
// campaign raised-amount accounting and receipt emails.
package donations
