// Package api implements the HTTP handlers and routing for the
// storefront catalog. Handlers validate transport input, delegate to
// the service layer, and translate service results and sentinel errors
// into HTTP responses; no business logic lives here.
package api
