// Package http contains the chi HTTP handlers for the fund-flow API:
// the ingestion trigger endpoint, the aggregate read endpoints over stored
// monthly inflow records, and the health surface. Handlers render JSON via
// go-chi/render and report failures as RFC 7807 problem details.
package http
