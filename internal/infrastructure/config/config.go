package config

import "github.com/kelseyhightower/envconfig"

// Database holds Turso database configuration. AuthToken may be empty
// for local file: databases.
type Database struct {
	URL       string `envconfig:"SPLITDECK_DATABASE_URL" required:"true"`
	AuthToken string `envconfig:"SPLITDECK_AUTH_TOKEN"`
}

// Server holds configuration for the dashboard API server.
type Server struct {
	Database Database

	JWTSecret         string `envconfig:"SPLITDECK_JWT_SECRET" required:"true"`
	IntegrationAPIKey string `envconfig:"SPLITDECK_INTEGRATION_API_KEY"`
}

// LoadServer loads server configuration from environment variables.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase loads only the database configuration, for commands that
// don't serve HTTP.
func LoadDatabase() (*Database, error) {
	var cfg Database
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Auth holds only the token signing secret, for commands that don't
// touch the database.
type Auth struct {
	JWTSecret string `envconfig:"SPLITDECK_JWT_SECRET" required:"true"`
}

// LoadAuth loads the signing secret from the environment.
func LoadAuth() (*Auth, error) {
	var cfg Auth
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
