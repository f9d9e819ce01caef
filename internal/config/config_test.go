package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "PORT")
	unsetEnvWithCleanup(t, "AI_ENDPOINT_URL")
	unsetEnvWithCleanup(t, "TRANSFER_PROCESSING_DELAY_MS")
	unsetEnvWithCleanup(t, "TRANSFER_COMPLETION_DELAY_MS")
	unsetEnvWithCleanup(t, "SCHEDULED_TRANSFER_CRON")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.AIEndpointURL != "https://toolkit.rork.com/text/llm/" {
		t.Fatalf("expected the default completion endpoint, got %q", cfg.AIEndpointURL)
	}
	if cfg.ProcessingDelayMS != 2000 || cfg.CompletionDelayMS != 3000 {
		t.Fatalf("expected default progression delays 2000/3000, got %d/%d", cfg.ProcessingDelayMS, cfg.CompletionDelayMS)
	}
	if cfg.ScheduledTransferCron != "@every 1m" {
		t.Fatalf("expected the default cron spec, got %q", cfg.ScheduledTransferCron)
	}
	if cfg.RedisPrefsPrefix != "diaremit:prefs" {
		t.Fatalf("expected the default prefs prefix, got %q", cfg.RedisPrefsPrefix)
	}
}

func TestLoadConfig_PortEnvOverridesServerPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SERVER_PORT", "8080")
	setEnvWithCleanup(t, "PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected PORT to win, got %q", cfg.ServerPort)
	}
}

func TestLoadConfig_NonPositiveDelaysFallBackToDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "TRANSFER_PROCESSING_DELAY_MS", "-5")
	setEnvWithCleanup(t, "TRANSFER_COMPLETION_DELAY_MS", "0")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ProcessingDelayMS != 2000 || cfg.CompletionDelayMS != 3000 {
		t.Fatalf("expected delays to fall back to defaults, got %d/%d", cfg.ProcessingDelayMS, cfg.CompletionDelayMS)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
