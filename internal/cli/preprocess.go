package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
)

type TemplateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// loadEnv returns the variables of the given .env file overlaid with the
// process environment. A missing .env file is not an error.
func loadEnv(dotenv string) (map[string]string, error) {
	env := map[string]string{}
	if dotenv != "" {
		fileEnv, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to read %s: %w", dotenv, err)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}
	for _, e := range os.Environ() {
		k, v, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		// an empty variable does not mask a value from the .env file
		if _, inFile := env[k]; v != "" || !inFile {
			env[k] = v
		}
	}
	return env, nil
}

// PreprocessYAML replaces {{ .ENV.VAR }} placeholders with values from env or .env file.
func PreprocessYAML(input []byte) ([]byte, error) {
	env, err := loadEnv(envFile())
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("yaml").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, TemplateContext{ENV: env}); err != nil {
		if matches := missingKeyRegex.FindStringSubmatch(err.Error()); len(matches) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", matches[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}

	return output.Bytes(), nil
}
