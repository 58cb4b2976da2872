// Package migrations registers the schema migrations. Import it for its
// side effects wherever the runner is used.
package migrations
