package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Uploads
		Logs
		Tasks
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		Path   string // sqlite file path
		DSN    string // postgres DSN, used when Driver is "postgres"
	}
	Uploads struct {
		Dir string // base directory for stored book files and covers
	}
	Logs struct {
		RetentionDays int    // days to keep activity log entries
		PurgeSchedule string // cron format, e.g. "30 3 * * *"
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		BcryptCost int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8170)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", "./openshelf.db")
	v.SetDefault("database_dsn", "")
	v.SetDefault("uploads_dir", "./uploads")
	v.SetDefault("logs_retention_days", 90)
	v.SetDefault("logs_purge_schedule", "30 3 * * *") // daily at 03:30
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("auth_bcrypt_cost", 12)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Uploads: Uploads{
			Dir: v.GetString("UPLOADS_DIR"),
		},
		Logs: Logs{
			RetentionDays: v.GetInt("LOGS_RETENTION_DAYS"),
			PurgeSchedule: v.GetString("LOGS_PURGE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			BcryptCost: v.GetInt("AUTH_BCRYPT_COST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

// DatabaseDSN returns the connection string for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.Database.Driver == "postgres" {
		return c.Database.DSN
	}
	return c.Database.Path
}
