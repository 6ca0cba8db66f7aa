package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			Name:     "dashboard",
			User:     "postgres",
			Password: "secret",
			PoolMin:  2,
			PoolMax:  10,
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
		Valcre: ValcreConfig{
			Environment: ValcreEnvTest,
		},
		DocuSeal: DocuSealConfig{
			BaseURL: "https://api.docuseal.com",
		},
		Email: EmailConfig{
			FromAddress: "jobs@example.com",
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 2, cfg.Database.PoolMin)
	assert.Equal(t, 10, cfg.Database.PoolMax)
	assert.Equal(t, ValcreEnvTest, cfg.Valcre.Environment)
	assert.Len(t, cfg.CORS.Origins, 2)
}

func TestLoad_MissingPassword(t *testing.T) {
	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("VALCRE_ENV", ValcreEnvProduction)
	t.Setenv("VALCRE_CLIENT_ID", "client-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, ValcreEnvProduction, cfg.Valcre.Environment)
	assert.Equal(t, "client-1", cfg.Valcre.ClientID)
}

func TestValidate_ValcreEnvironment(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cfg.Valcre.Environment = "staging"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "VALCRE_ENV")
}

func TestValcreBaseURL_SelectedByEnvironment(t *testing.T) {
	test := ValcreConfig{Environment: ValcreEnvTest}
	prod := ValcreConfig{Environment: ValcreEnvProduction}

	assert.Equal(t, "https://api.test.valcre.com", test.BaseURL())
	assert.Equal(t, "https://api.valcre.com", prod.BaseURL())
	assert.NotEqual(t, test.BaseURL(), prod.BaseURL())
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Database.PoolMin = 20
	cfg.Database.PoolMax = 10

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_POOL_MIN")
}

func TestValidate_RequiredFields(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, "PORT"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"missing db name", func(c *Config) { c.Database.Name = "" }, "DB_NAME"},
		{"missing cors origins", func(c *Config) { c.CORS.Origins = nil }, "CORS_ORIGINS"},
		{"missing docuseal url", func(c *Config) { c.DocuSeal.BaseURL = "" }, "DOCUSEAL_BASE_URL"},
		{"missing email from", func(c *Config) { c.Email.FromAddress = "" }, "EMAIL_FROM"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseOrigins("a, b"))
	assert.Equal(t, []string{"a"}, parseOrigins("a,,"))
	assert.Empty(t, parseOrigins(""))
}
