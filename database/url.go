package database

import (
	"fmt"
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a base URL with an optional database name.
// Hosting providers hand out both postgres:// and postgresql:// URLs; both are
// accepted. sslmode=disable is added when the URL does not choose a mode,
// matching local and container deployments.
func ConstructDatabaseURL(baseURL, databaseName string) (string, error) {
	if baseURL == "" {
		return "", fmt.Errorf("database URL is empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
	default:
		return "", fmt.Errorf("unsupported database URL scheme %q", u.Scheme)
	}

	if databaseName != "" {
		u.Path = "/" + strings.Trim(databaseName, "/")
	}

	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}
