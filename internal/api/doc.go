// Package api contains the HTTP handlers for the service: profile and
// authentication endpoints, deck and card management, study sessions,
// and the podcast pipeline. Handlers stay thin: decode and validate the
// request, call a service, map the error, shape the response.
package api
