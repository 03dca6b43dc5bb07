package model

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// IMAPConfig holds the mailbox connection settings.
//
// An incomplete configuration (missing host, username, or password) is a
// valid state meaning "sync disabled", not a startup error.
type IMAPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// TLS selects implicit TLS; when false the client connects with
	// STARTTLS instead.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// InsecureSkipVerify disables server certificate validation. Some
	// consumer mail providers present certificate chains that fail strict
	// verification; this is an explicit opt-in, never a default.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	// Mailbox is the folder to ingest from.
	Mailbox string `mapstructure:"mailbox" yaml:"mailbox"`
}

// Configured reports whether enough settings are present to attempt a
// connection.
func (c IMAPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// Addr returns the host:port dial address.
func (c IMAPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// StorageConfig holds the persistence settings.
type StorageConfig struct {
	// DatabasePath is the SQLite database file.
	DatabasePath string `mapstructure:"database" yaml:"database"`

	// UploadDir is the root directory for stored attachment files.
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	IMAP    IMAPConfig    `mapstructure:"imap" yaml:"imap"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
}

// defaultAppConfig returns the configuration used when no file or
// environment overrides are present.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		IMAP: IMAPConfig{
			Port:    "993",
			TLS:     true,
			Mailbox: "INBOX",
		},
		Storage: StorageConfig{
			DatabasePath: "holerites.db",
			UploadDir:    "./uploads",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// applying environment variable overrides. A missing file is not an error;
// defaults (and the environment) are used instead.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("imap.port", "993")
	v.SetDefault("imap.tls", true)
	v.SetDefault("imap.mailbox", "INBOX")
	v.SetDefault("storage.database", "holerites.db")
	v.SetDefault("storage.upload_dir", "./uploads")

	// Environment overrides keep the engine deployable without a file.
	_ = v.BindEnv("imap.host", "IMAP_HOST")
	_ = v.BindEnv("imap.port", "IMAP_PORT")
	_ = v.BindEnv("imap.username", "IMAP_USERNAME")
	_ = v.BindEnv("imap.password", "IMAP_PASSWORD")
	_ = v.BindEnv("imap.tls", "IMAP_TLS")
	_ = v.BindEnv("imap.insecure_skip_verify", "IMAP_INSECURE_TLS")
	_ = v.BindEnv("imap.mailbox", "IMAP_MAILBOX")
	_ = v.BindEnv("storage.database", "HOLERITE_DB")
	_ = v.BindEnv("storage.upload_dir", "HOLERITE_UPLOAD_DIR")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
