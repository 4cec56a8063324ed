// Package handlers contains the monitoring endpoints served next to the pages.
//
// Handlers use the foundation/errors HTTP adapter for failures and the
// server/responses package for JSON bodies.
package handlers
