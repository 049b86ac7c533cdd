package config

import "os"

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port      string
	PublicURL string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig() ServerConfig {
	return LoadServerConfigFrom(os.Getenv)
}

// LoadServerConfigFrom loads server configuration using the given lookup function
func LoadServerConfigFrom(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	publicURL := getenv("BANTORA_PUBLIC_URL")
	if publicURL == "" {
		publicURL = "http://localhost:" + port
	}

	return ServerConfig{
		Port:      port,
		PublicURL: publicURL,
	}
}
