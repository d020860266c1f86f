package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Port != "3001" {
		t.Errorf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.MongoDB != "rakshak" {
		t.Errorf("MongoDB = %q, want rakshak", cfg.MongoDB)
	}
	if cfg.Storage.Driver != "local" {
		t.Errorf("Storage.Driver = %q, want local", cfg.Storage.Driver)
	}
	if cfg.Storage.MaxUploadMB != 5 {
		t.Errorf("Storage.MaxUploadMB = %d, want 5", cfg.Storage.MaxUploadMB)
	}
	if cfg.Notify.DefaultTenant != "default" {
		t.Errorf("Notify.DefaultTenant = %q, want default", cfg.Notify.DefaultTenant)
	}
	if cfg.Notify.Timeout != 30*time.Second {
		t.Errorf("Notify.Timeout = %v, want 30s", cfg.Notify.Timeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("STORAGE_S3_BUCKET", "incident-images")
	t.Setenv("AUTH_ENFORCE", "true")
	t.Setenv("NOTIFY_TIMEOUT", "5s")

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.Storage.Driver != "s3" || cfg.Storage.S3Bucket != "incident-images" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if !cfg.Auth.Enforce {
		t.Error("Auth.Enforce = false, want true")
	}
	if cfg.Notify.Timeout != 5*time.Second {
		t.Errorf("Notify.Timeout = %v, want 5s", cfg.Notify.Timeout)
	}
}
