package config

import (
	"testing"

	"kitaguard/internal/domain/lifecycle"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kitaguard")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.PurgeTimezone != "Europe/Berlin" {
		t.Errorf("PurgeTimezone = %q, want Europe/Berlin", cfg.PurgeTimezone)
	}
	if cfg.PurgeHour != 3 || cfg.PurgeMinute != 0 {
		t.Errorf("purge slot = %d:%d, want 3:00", cfg.PurgeHour, cfg.PurgeMinute)
	}
	if cfg.RetentionMonths != 12 {
		t.Errorf("RetentionMonths = %d, want 12", cfg.RetentionMonths)
	}
	if cfg.AnomalyThreshold != 10 {
		t.Errorf("AnomalyThreshold = %d, want 10", cfg.AnomalyThreshold)
	}
	if len(cfg.RetentionDays) != 0 {
		t.Errorf("RetentionDays should be empty without overrides, got %v", cfg.RetentionDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadRetentionOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kitaguard")
	t.Setenv("RETENTION_USER_DAYS", "90")
	t.Setenv("RETENTION_CHILD_DAYS", "not-a-number")

	cfg := Load()
	if cfg.RetentionDays[lifecycle.KindUser] != 90 {
		t.Errorf("user override = %d, want 90", cfg.RetentionDays[lifecycle.KindUser])
	}
	if _, ok := cfg.RetentionDays[lifecycle.KindChild]; ok {
		t.Error("unparseable override must be dropped")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DatabaseURL:      "postgres://localhost/kitaguard",
			PurgeTimezone:    "Europe/Berlin",
			PurgeHour:        3,
			RetentionMonths:  12,
			AnomalyThreshold: 10,
			AuditLogLimit:    100,
			MaxBodyBytes:     1 << 20,
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	cfg := base()
	cfg.DatabaseURL = " "
	if err := cfg.Validate(); err == nil {
		t.Error("blank DATABASE_URL must fail validation")
	}

	cfg = base()
	cfg.PurgeHour = 24
	if err := cfg.Validate(); err == nil {
		t.Error("purge hour 24 must fail validation")
	}

	cfg = base()
	cfg.RetentionMonths = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero retention months must fail validation")
	}

	cfg = base()
	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("production without JWT_SECRET must fail validation")
	}
}
