package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/obslog/internal/flagx"
	"github.com/dmitrijs2005/obslog/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "10m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into
// the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr   string         `json:"endpoint_addr"`
	DatasetBackend string         `json:"dataset_backend"`
	DatasetFile    string         `json:"dataset_file"`
	DatabaseDSN    string         `json:"database_dsn"`
	StorageBackend string         `json:"storage_backend"`
	StorageDir     string         `json:"storage_dir"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	SMTPHost       string         `json:"smtp_host"`
	SMTPPort       string         `json:"smtp_port"`
	SMTPUser       string         `json:"smtp_user"`
	SMTPPassword   string         `json:"smtp_password"`
	SMTPFrom       string         `json:"smtp_from"`
	CodeTTL        timex.Duration `json:"code_ttl"`
	DevMode        bool           `json:"dev_mode"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatasetBackend = c.DatasetBackend
	config.DatasetFile = c.DatasetFile
	config.DatabaseDSN = c.DatabaseDSN
	config.StorageBackend = c.StorageBackend
	config.StorageDir = c.StorageDir
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUser = c.SMTPUser
	config.SMTPPassword = c.SMTPPassword
	config.SMTPFrom = c.SMTPFrom
	config.CodeTTL = time.Duration(c.CodeTTL.Duration)
	config.DevMode = c.DevMode
}
