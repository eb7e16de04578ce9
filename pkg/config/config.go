package config

import (
	"fmt"

	"github.com/dmitrymomot/subtracker/pkg/backup"
	"github.com/dmitrymomot/subtracker/pkg/kv"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backup targets.
const (
	TargetLocal = "local"
	TargetS3    = "s3"
)

// Config is the complete tracker configuration.
type Config struct {
	Env              string `env:"SUBTRACKER_ENV" envDefault:"development"`
	LogLevel         string `env:"SUBTRACKER_LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"SUBTRACKER_LOG_FORMAT"`
	Backend          string `env:"SUBTRACKER_BACKEND" envDefault:"file"`
	DataDir          string `env:"SUBTRACKER_DATA_DIR" envDefault:"./data"`
	StorageKey       string `env:"SUBTRACKER_STORAGE_KEY" envDefault:"subscription-tracker-data"`
	ExpiringSoonDays int    `env:"SUBTRACKER_EXPIRING_SOON_DAYS" envDefault:"7"`
	BackupTarget     string `env:"SUBTRACKER_BACKUP_TARGET" envDefault:"local"`
	BackupDir        string `env:"SUBTRACKER_BACKUP_DIR" envDefault:"./backups"`

	Redis kv.RedisConfig
	S3    backup.S3Config
}

// Validate checks the values that env tags cannot express.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.BackupTarget {
	case TargetLocal, TargetS3:
	default:
		return fmt.Errorf("%w: unknown backup target %q", ErrInvalidConfig, c.BackupTarget)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("%w: storage key is empty", ErrInvalidConfig)
	}
	if c.ExpiringSoonDays < 0 {
		return fmt.Errorf("%w: expiring soon threshold must not be negative", ErrInvalidConfig)
	}
	if c.Backend == BackendRedis && c.Redis.ConnectionURL == "" {
		return fmt.Errorf("%w: REDIS_URL is required for the redis backend", ErrInvalidConfig)
	}
	if c.BackupTarget == TargetS3 && (c.S3.Bucket == "" || c.S3.Region == "") {
		return fmt.Errorf("%w: S3_BUCKET and S3_REGION are required for the s3 backup target", ErrInvalidConfig)
	}
	return nil
}
