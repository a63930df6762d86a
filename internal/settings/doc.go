// Package settings resolves the application settings exposed in the API
// documentation, most importantly the project version.
//
// Values are taken from the first source that provides them, in this order:
// an explicit argument, the [project] table of a project.toml descriptor,
// environment variables, secret files, and finally the built-in defaults.
// Missing or malformed sources are skipped; Load never fails.
package settings
