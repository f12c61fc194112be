package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.AppPort == "" {
		t.Error("AppPort should have a default")
	}
	if cfg.DBPort != "5432" {
		t.Errorf("DBPort default = %q, want 5432", cfg.DBPort)
	}
	if cfg.StorageDriver != "local" {
		t.Errorf("StorageDriver default = %q, want local", cfg.StorageDriver)
	}
}

func TestGetEnvOverride(t *testing.T) {
	t.Setenv("DB_NAME", "chatroom_test")
	if got := getEnv("DB_NAME", "chatroom"); got != "chatroom_test" {
		t.Errorf("getEnv = %q, want override", got)
	}
	if got := getEnv("UNSET_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Errorf("getEnv fallback = %q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	if got := getEnvAsInt("REDIS_DB", 0); got != 3 {
		t.Errorf("getEnvAsInt = %d, want 3", got)
	}
	t.Setenv("REDIS_DB", "not a number")
	if got := getEnvAsInt("REDIS_DB", 7); got != 7 {
		t.Errorf("getEnvAsInt fallback = %d, want 7", got)
	}
}
