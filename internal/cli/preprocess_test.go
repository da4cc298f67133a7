package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessYAML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		envVars  map[string]string
		envFile  string
		expected string
		wantErr  string
	}{
		{
			name:     "simple environment variable substitution",
			input:    "user: {{ .ENV.LEX_USER }}",
			envVars:  map[string]string{"LEX_USER": "user-42"},
			expected: "user: user-42",
		},
		{
			name:     "multiple environment variables",
			input:    "bot: {{ .ENV.LEX_BOT }}\nalias: {{ .ENV.LEX_ALIAS }}",
			envVars:  map[string]string{"LEX_BOT": "OrderFlowers", "LEX_ALIAS": "PROD"},
			expected: "bot: OrderFlowers\nalias: PROD",
		},
		{
			name:     "environment variable with special characters",
			input:    "token: {{ .ENV.LEX_TOKEN }}",
			envVars:  map[string]string{"LEX_TOKEN": "p@ss=w0rd!#"},
			expected: "token: p@ss=w0rd!#",
		},
		{
			name:     "empty environment variable",
			input:    "empty: {{ .ENV.LEX_EMPTY }}",
			envVars:  map[string]string{"LEX_EMPTY": ""},
			expected: "empty: ",
		},
		{
			name:     "no template variables",
			input:    "session:\n  sessionAttributes: {}",
			expected: "session:\n  sessionAttributes: {}",
		},
		{
			name:    "missing environment variable",
			input:   "missing: {{ .ENV.LEX_MISSING_VAR }}",
			wantErr: "missing environment variable: LEX_MISSING_VAR",
		},
		{
			name:    "invalid template syntax",
			input:   "invalid: {{ .ENV.VAR }",
			wantErr: "unexpected",
		},
		{
			name:     "value from .env file",
			input:    "user: {{ .ENV.LEX_FILE_USER }}",
			envFile:  "LEX_FILE_USER=from-file\n",
			expected: "user: from-file",
		},
		{
			name:     "environment overrides .env file",
			input:    "user: {{ .ENV.LEX_BOTH }}",
			envVars:  map[string]string{"LEX_BOTH": "from-env"},
			envFile:  "LEX_BOTH=from-file\n",
			expected: "user: from-env",
		},
		{
			name:     "empty environment variable keeps .env value",
			input:    "user: {{ .ENV.LEX_MASKED }}",
			envVars:  map[string]string{"LEX_MASKED": ""},
			envFile:  "LEX_MASKED=from-file\n",
			expected: "user: from-file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			if tt.envFile != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(tt.envFile), 0600))
			}

			result, err := PreprocessYAML([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestLoadEnvBadFile(t *testing.T) {
	dir := t.TempDir()
	_, err := loadEnv(dir)
	assert.Error(t, err, "a directory is not a readable .env file")

	env, err := loadEnv(filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.NotEmpty(t, env)
}
