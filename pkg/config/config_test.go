package config

import (
	"os"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Server:    ServerConfig{Environment: EnvDevelopment},
		Database:  DatabaseConfig{Path: "pvc_factory.db"},
		Admin:     AdminConfig{Password: "admin123"},
		Retention: RetentionConfig{MaxAgeDays: 30},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "development defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "development allows in-memory database",
			mutate: func(c *Config) {
				c.Database.Path = ":memory:"
			},
			wantErr: false,
		},
		{
			name: "production rejects in-memory database",
			mutate: func(c *Config) {
				c.Server.Environment = EnvProduction
				c.Database.Path = ":memory:"
				c.Admin.Password = "s3cret"
			},
			wantErr: true,
		},
		{
			name: "production rejects default admin password",
			mutate: func(c *Config) {
				c.Server.Environment = EnvProduction
			},
			wantErr: true,
		},
		{
			name: "production accepts hardened settings",
			mutate: func(c *Config) {
				c.Server.Environment = EnvProduction
				c.Admin.Password = "s3cret"
			},
			wantErr: false,
		},
		{
			name: "retention must be positive",
			mutate: func(c *Config) {
				c.Retention.MaxAgeDays = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("factory-service")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("default port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Path != "pvc_factory.db" {
		t.Errorf("default database path = %q, want pvc_factory.db", cfg.Database.Path)
	}
	if cfg.Retention.MaxAgeDays != 30 {
		t.Errorf("default retention = %d, want 30", cfg.Retention.MaxAgeDays)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	os.Setenv("FACTORY_SERVER_PORT", "8080")
	os.Setenv("FACTORY_DATABASE_PATH", "/data/factory.db")
	defer os.Unsetenv("FACTORY_SERVER_PORT")
	defer os.Unsetenv("FACTORY_DATABASE_PATH")

	cfg, err := Load("factory-service")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/factory.db" {
		t.Errorf("database path = %q, want /data/factory.db", cfg.Database.Path)
	}
}
