package config

import "os"

// parseEnv overlays configuration from environment variables. These take
// precedence over defaults, the JSON file and flags, which keeps container
// deployments working without a config file.
//
// Recognized variables:
//
//	OBS_ADDR             HTTP bind address
//	OBS_DATASET_BACKEND  dataset backend (jsonfile, memory, postgres)
//	OBS_DB_FILE          dataset file path for the jsonfile backend
//	OBS_DATABASE_DSN     PostgreSQL DSN
//	OBS_STORAGE_BACKEND  storage backend (filesystem, memory, s3)
//	OBS_STORAGE_DIR      storage root for the filesystem backend
//	OBS_DEV_MODE         "true" or "false"
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM
func parseEnv(config *Config) {
	setIfPresent := func(dst *string, name string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	setIfPresent(&config.EndpointAddr, "OBS_ADDR")
	setIfPresent(&config.DatasetBackend, "OBS_DATASET_BACKEND")
	setIfPresent(&config.DatasetFile, "OBS_DB_FILE")
	setIfPresent(&config.DatabaseDSN, "OBS_DATABASE_DSN")
	setIfPresent(&config.StorageBackend, "OBS_STORAGE_BACKEND")
	setIfPresent(&config.StorageDir, "OBS_STORAGE_DIR")
	setIfPresent(&config.SMTPHost, "SMTP_HOST")
	setIfPresent(&config.SMTPPort, "SMTP_PORT")
	setIfPresent(&config.SMTPUser, "SMTP_USER")
	setIfPresent(&config.SMTPPassword, "SMTP_PASS")
	setIfPresent(&config.SMTPFrom, "SMTP_FROM")

	if v, ok := os.LookupEnv("OBS_DEV_MODE"); ok {
		config.DevMode = v == "true" || v == "1"
	}
}
