package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"kitaguard/internal/domain/lifecycle"
)

type Config struct {
	Addr              string
	DatabaseURL       string
	JWTSecret         string
	Environment       string
	BlobStorageDir    string
	RetentionDays     map[lifecycle.Kind]int
	PurgeTimezone     string
	PurgeHour         int
	PurgeMinute       int
	RetentionMonths   int
	AnomalyThreshold  int
	AuditLogLimit     int
	SeedInstitution   string
	SeedAdminEmail    string
	SeedAdminPassword string
	RunMigrations     bool
	RunSeed           bool
	MaxBodyBytes      int64
	MetricsEnabled    bool
}

var retentionEnvKeys = map[lifecycle.Kind]string{
	lifecycle.KindUser:            "RETENTION_USER_DAYS",
	lifecycle.KindChild:           "RETENTION_CHILD_DAYS",
	lifecycle.KindGroup:           "RETENTION_GROUP_DAYS",
	lifecycle.KindInstitution:     "RETENTION_INSTITUTION_DAYS",
	lifecycle.KindPersonalTask:    "RETENTION_PERSONAL_TASK_DAYS",
	lifecycle.KindNote:            "RETENTION_NOTE_DAYS",
	lifecycle.KindNotificationLog: "RETENTION_NOTIFICATION_LOG_DAYS",
	lifecycle.KindClosedDay:       "RETENTION_CLOSED_DAY_DAYS",
	lifecycle.KindMessage:         "RETENTION_MESSAGE_DAYS",
	lifecycle.KindActivityLog:     "RETENTION_ACTIVITY_LOG_DAYS",
	lifecycle.KindFailedLogin:     "RETENTION_FAILED_LOGIN_DAYS",
}

func Load() Config {
	retention := make(map[lifecycle.Kind]int)
	for kind, key := range retentionEnvKeys {
		if days := getEnvInt(key, 0); days > 0 {
			retention[kind] = days
		}
	}

	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		Environment:       getEnv("APP_ENV", "development"),
		BlobStorageDir:    getEnv("BLOB_STORAGE_DIR", "storage/uploads"),
		RetentionDays:     retention,
		PurgeTimezone:     getEnv("PURGE_TIMEZONE", "Europe/Berlin"),
		PurgeHour:         getEnvInt("PURGE_HOUR", 3),
		PurgeMinute:       getEnvInt("PURGE_MINUTE", 0),
		RetentionMonths:   getEnvInt("PURGE_RETENTION_MONTHS", 12),
		AnomalyThreshold:  getEnvInt("ANOMALY_THRESHOLD", 10),
		AuditLogLimit:     getEnvInt("AUDIT_LOG_LIMIT", 100),
		SeedInstitution:   getEnv("SEED_INSTITUTION_NAME", "Default Institution"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:           getEnvBool("RUN_SEED", true),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.PurgeHour < 0 || c.PurgeHour > 23 {
		return fmt.Errorf("PURGE_HOUR must be between 0 and 23")
	}
	if c.PurgeMinute < 0 || c.PurgeMinute > 59 {
		return fmt.Errorf("PURGE_MINUTE must be between 0 and 59")
	}
	if c.RetentionMonths <= 0 {
		return fmt.Errorf("PURGE_RETENTION_MONTHS must be positive")
	}
	if c.AnomalyThreshold <= 0 {
		return fmt.Errorf("ANOMALY_THRESHOLD must be positive")
	}
	if c.AuditLogLimit <= 0 {
		return fmt.Errorf("AUDIT_LOG_LIMIT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
