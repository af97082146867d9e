package config

import (
	"os"
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(KeyTelegramToken, "token")
	t.Setenv(KeyMongoURI, "mongodb://localhost:27017")
	t.Setenv(KeyMongoDB, "covid_bot")
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaultsAndRequired(t *testing.T) {
	unsetEnv(t, KeyAppEnv)
	unsetEnv(t, KeyHTTPPort)
	unsetEnv(t, KeyLogLevel)
	unsetEnv(t, KeyCovidAPIBase)
	unsetEnv(t, KeyNotifyTime)
	unsetEnv(t, KeyDefaultLang)

	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}

	if cfg.AppEnv != DefaultAppEnv {
		t.Fatalf("expected app env %s, got %s", DefaultAppEnv, cfg.AppEnv)
	}
	if cfg.HTTPPort != DefaultHTTPPort {
		t.Fatalf("expected default http port %d, got %d", DefaultHTTPPort, cfg.HTTPPort)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %s, got %s", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.CovidAPIBase != DefaultCovidAPIBase {
		t.Fatalf("expected default api base %s, got %s", DefaultCovidAPIBase, cfg.CovidAPIBase)
	}
	if cfg.NotifyTime != "" {
		t.Fatalf("expected broadcast disabled by default, got %q", cfg.NotifyTime)
	}
	if cfg.DefaultLang != DefaultLang {
		t.Fatalf("expected default language %s, got %s", DefaultLang, cfg.DefaultLang)
	}
}

func TestLoadFailsOnMissingRequired(t *testing.T) {
	unsetEnv(t, KeyAppEnv)

	unsetEnv(t, KeyTelegramToken)
	t.Setenv(KeyMongoURI, "mongodb://localhost:27017")
	t.Setenv(KeyMongoDB, "covid_bot")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected missing required env to error")
	}

	if !strings.Contains(err.Error(), KeyTelegramToken) {
		t.Fatalf("expected error to mention missing %s, got %v", KeyTelegramToken, err)
	}
}

func TestLoadRejectsUnknownAppEnv(t *testing.T) {
	setRequired(t)
	t.Setenv(KeyAppEnv, "staging")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown app env")
	}
}

func TestLoadValidatesHTTPPort(t *testing.T) {
	unsetEnv(t, KeyAppEnv)
	setRequired(t)

	t.Setenv(KeyHTTPPort, "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid %s", KeyHTTPPort)
	}

	t.Setenv(KeyHTTPPort, "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive %s", KeyHTTPPort)
	}

	t.Setenv(KeyHTTPPort, "9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected valid port to load, got error: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
	}
}

func TestLoadValidatesNotifyTime(t *testing.T) {
	unsetEnv(t, KeyAppEnv)
	setRequired(t)

	t.Setenv(KeyNotifyTime, "25:99")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid %s", KeyNotifyTime)
	}

	t.Setenv(KeyNotifyTime, "08:30")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected valid notify time to load, got error: %v", err)
	}
	if cfg.NotifyTime != "08:30" {
		t.Fatalf("expected notify time 08:30, got %q", cfg.NotifyTime)
	}
}

func TestNotifyClock(t *testing.T) {
	cfg := Config{NotifyTime: "08:30"}
	hour, minute, ok := cfg.NotifyClock()
	if !ok || hour != 8 || minute != 30 {
		t.Fatalf("expected 08:30 to parse, got %d:%d ok=%v", hour, minute, ok)
	}

	if _, _, ok := (Config{}).NotifyClock(); ok {
		t.Fatalf("expected empty notify time to report disabled")
	}
}

func TestIsDevelopment(t *testing.T) {
	if !(Config{AppEnv: EnvDevelopment}).IsDevelopment() {
		t.Fatalf("expected development env to be detected")
	}
	if (Config{AppEnv: EnvProduction}).IsDevelopment() {
		t.Fatalf("expected production env to not be development")
	}
}

func TestContractCoversEveryKey(t *testing.T) {
	keys := map[string]bool{}
	for _, spec := range Contract {
		keys[spec.Key] = true
	}

	for _, key := range []string{
		KeyTelegramToken, KeyMongoURI, KeyMongoDB, KeyAppEnv,
		KeyLogLevel, KeyHTTPPort, KeyCovidAPIBase, KeyNotifyTime, KeyDefaultLang,
	} {
		if !keys[key] {
			t.Fatalf("contract is missing key %s", key)
		}
	}
}
