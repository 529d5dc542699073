package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  name: attend
  user: attend
  password: secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("database port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Attendance.Tolerance != 0.45 {
		t.Errorf("tolerance = %v, want 0.45", cfg.Attendance.Tolerance)
	}
	if cfg.Attendance.GeofenceRadius != 0.05 {
		t.Errorf("geofence radius = %v, want 0.05", cfg.Attendance.GeofenceRadius)
	}
	if cfg.Attendance.Timezone != "Asia/Kolkata" {
		t.Errorf("timezone = %q, want Asia/Kolkata", cfg.Attendance.Timezone)
	}
	if cfg.Vision.DetectionThreshold != 0.5 {
		t.Errorf("detection threshold = %v, want 0.5", cfg.Vision.DetectionThreshold)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %s/%s, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  admin_api_key: admin-key
  superadmin_api_key: super-key
attendance:
  tolerance: 0.6
  geofence_radius_km: 0.1
  timezone: UTC
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.AdminKey != "admin-key" || cfg.Server.SuperadminKey != "super-key" {
		t.Error("api keys not read from file")
	}
	if cfg.Attendance.Tolerance != 0.6 {
		t.Errorf("tolerance = %v, want 0.6", cfg.Attendance.Tolerance)
	}
	if cfg.Attendance.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", cfg.Attendance.Timezone)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: localhost
`)

	t.Setenv("AT_SERVER_PORT", "7070")
	t.Setenv("AT_DB_HOST", "db.internal")
	t.Setenv("AT_TIMEZONE", "UTC")
	t.Setenv("AT_TOLERANCE", "0.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q, want env override", cfg.Database.Host)
	}
	if cfg.Attendance.Timezone != "UTC" {
		t.Errorf("timezone = %q, want env override UTC", cfg.Attendance.Timezone)
	}
	if cfg.Attendance.Tolerance != 0.5 {
		t.Errorf("tolerance = %v, want env override 0.5", cfg.Attendance.Tolerance)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "attend", User: "u", Password: "p"}
	want := "postgres://u:p@localhost:5432/attend?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
