package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Set required environment variables
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("JWT_SECRET_KEY", "this_is_a_test_secret_key_with_32_chars_minimum")
	defer func() {
		os.Unsetenv("DB_PASSWORD")
		os.Unsetenv("JWT_SECRET_KEY")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBPassword != "test_password" {
		t.Errorf("DBPassword = %q, want %q", cfg.DBPassword, "test_password")
	}

	if cfg.AppPort != "3001" {
		t.Errorf("AppPort = %q, want default %q", cfg.AppPort, "3001")
	}

	if cfg.RateLimitPerPlayer != 200 {
		t.Errorf("RateLimitPerPlayer = %d, want default 200", cfg.RateLimitPerPlayer)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing DB_PASSWORD",
			envVars: map[string]string{
				"JWT_SECRET_KEY": "this_is_a_test_secret_key_with_32_chars_minimum",
			},
		},
		{
			name: "Missing JWT_SECRET_KEY",
			envVars: map[string]string{
				"DB_PASSWORD": "password",
			},
		},
		{
			name: "JWT secret too short",
			envVars: map[string]string{
				"DB_PASSWORD":    "password",
				"JWT_SECRET_KEY": "short",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_InvalidChatID(t *testing.T) {
	os.Setenv("DB_PASSWORD", "test_password")
	os.Setenv("JWT_SECRET_KEY", "this_is_a_test_secret_key_with_32_chars_minimum")
	os.Setenv("ANNOUNCEMENT_CHAT_ID", "not-a-number")
	defer os.Clearenv()

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() expected error for bad chat id, got nil")
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "Development skips the checks",
			cfg:     Config{AppEnv: "development", DBSSLMode: "disable"},
			wantErr: false,
		},
		{
			name: "Production requires SSL",
			cfg: Config{
				AppEnv:    "production",
				DBSSLMode: "disable",
				JWTSecret: "a_real_secret_key_with_enough_characters",
			},
			wantErr: true,
		},
		{
			name: "Production rejects the default JWT secret",
			cfg: Config{
				AppEnv:    "production",
				DBSSLMode: "require",
				JWTSecret: "your_jwt_secret_minimum_32_chars_here_change_this",
			},
			wantErr: true,
		},
		{
			name: "Production with proper settings",
			cfg: Config{
				AppEnv:    "production",
				DBSSLMode: "require",
				JWTSecret: "a_real_secret_key_with_enough_characters",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProductionSecurity() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
