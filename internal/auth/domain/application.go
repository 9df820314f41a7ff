package domain

import (
	"slices"
	"time"
)

// Application is an OAuth client. RedirectURIs is the authoritative
// allow-list of callback addresses a grant code may be delivered to.
type Application struct {
	ID           string
	Name         string
	SecretHash   string // argon2id PHC string of the client secret
	RedirectURIs []string
	CreatedAt    time.Time
}

// AllowsRedirect reports whether uri is registered for the application.
// Matching is exact: no normalisation, prefix or wildcard matching.
func (a Application) AllowsRedirect(uri string) bool {
	return uri != "" && slices.Contains(a.RedirectURIs, uri)
}
