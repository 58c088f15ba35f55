// Package guard authorizes authenticated principals against the resolved
// request tenant.
//
// The guard's state machine has four outcomes: unauthenticated (401),
// authenticated for the wrong tenant (403, logged as a security-relevant
// event), authenticated and matched (proceed), and platform-exempt
// (an unaffiliated platform operator acting within the resolved tenant;
// proceed, with the acting tenant recorded). A mismatch is never corrected
// by switching the acting tenant.
//
//	r.Group(func(r chi.Router) {
//		r.Use(authn.Middleware)
//		r.Use(guard.RequireAdmin(log))
//		r.Post("/campaigns", createCampaign)
//	})
package guard
