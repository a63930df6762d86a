// Package application provides application initialization and dependency wiring.
// It resolves the settings, builds the tag catalog and the OpenAPI document,
// and assembles the API router, documentation pages, metrics endpoint and
// HTTP server, keeping the main package focused on CLI parsing and orchestration.
package application
