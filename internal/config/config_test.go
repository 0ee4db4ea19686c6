package config

import (
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    Config
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			want: Config{
				Workers:     4,
				Include:     "*.webp",
				MaxFileSize: 33554432,
				LogLevel:    "info",
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"BEAVER_WEBPCHECK_WORKERS":       "16",
				"BEAVER_WEBPCHECK_INCLUDE":       "*.{webp,png}",
				"BEAVER_WEBPCHECK_MAX_FILE_SIZE": "1048576",
				"BEAVER_WEBPCHECK_STRICT":        "true",
				"BEAVER_WEBPCHECK_LOG_LEVEL":     "debug",
				"BEAVER_WEBPCHECK_ADDR":          "127.0.0.1:9000",
			},
			want: Config{
				Workers:     16,
				Include:     "*.{webp,png}",
				MaxFileSize: 1048576,
				Strict:      true,
				LogLevel:    "debug",
				Addr:        "127.0.0.1:9000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("Load() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestListenAddr(t *testing.T) {
	c := Config{}
	if got := c.ListenAddr(); got != DefaultAddr {
		t.Errorf("ListenAddr() = %q, want %q", got, DefaultAddr)
	}
	c.Addr = "127.0.0.1:9000"
	if got := c.ListenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("ListenAddr() = %q, want %q", got, "127.0.0.1:9000")
	}
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	t.Setenv("BEAVER_WEBPCHECK_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestValidate(t *testing.T) {
	good := Config{Workers: 1, Include: "*"}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	for name, c := range map[string]Config{
		"no workers":    {Include: "*"},
		"negative size": {Workers: 1, Include: "*", MaxFileSize: -1},
		"empty include": {Workers: 1},
	} {
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
