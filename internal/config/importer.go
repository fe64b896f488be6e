package config

import "fmt"

// ImporterConfig configures the question bank importer.
type ImporterConfig struct {
	Database DatabaseConfig
	Logger   LoggerConfig
	Mongo    MongoConfig
}

// MongoConfig points at the question bank collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// LoadImporter loads the importer configuration from environment variables.
func LoadImporter() (*ImporterConfig, error) {
	cfg := &ImporterConfig{
		Database: loadDatabase(),
		Logger:   loadLogger(),
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DATABASE", "questionbank"),
			Collection: getEnv("MONGO_COLLECTION", "questions"),
		},
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.Logger.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.Mongo.URI == "" || cfg.Mongo.Database == "" || cfg.Mongo.Collection == "" {
		return nil, fmt.Errorf("configuration validation failed: mongo URI, database and collection are required")
	}

	return cfg, nil
}
