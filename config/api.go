package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// The GraphQL registry view is read-only, no auth
	return []string{"/health", "/graphql"}
}
