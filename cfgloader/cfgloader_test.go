package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/medalists/cfgloader"
)

type testConfig struct {
	Name     string        `yaml:"name"     validate:"required"`
	Port     int           `yaml:"port"     default:"8080"`
	Timeout  time.Duration `yaml:"timeout"  default:"5s"`
	Password string        `yaml:"password" mask:"true"`
}

func writeConfig(t *testing.T, env, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Setenv("MEDALISTS_TEST_SECRET", "s3cret")
	dir := writeConfig(t, cfgloader.EnvTest, "name: medalists\npassword: ${MEDALISTS_TEST_SECRET}\n")

	cfg, err := cfgloader.Load[testConfig](dir, cfgloader.EnvTest)
	require.NoError(t, err)

	assert.Equal(t, "medalists", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "s3cret", cfg.Password)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		body    string
		wantErr string
	}{
		{
			name:    "unknown environment",
			env:     "qa",
			body:    "name: x\n",
			wantErr: "ENVIRONMENT",
		},
		{
			name:    "validation failure",
			env:     cfgloader.EnvLocal,
			body:    "port: 1\n",
			wantErr: "testConfig.Name: required",
		},
		{
			name:    "broken yaml",
			env:     cfgloader.EnvDev,
			body:    "name: [\n",
			wantErr: "unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.env, tt.body)
			_, err := cfgloader.Load[testConfig](dir, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := cfgloader.Load[testConfig](t.TempDir(), cfgloader.EnvStaging)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}
