package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that provide flag defaults.
const (
	EnvSchema  = "FILTERQL_SCHEMA"
	EnvStrict  = "FILTERQL_STRICT"
	EnvBackend = "FILTERQL_BACKEND"
)

// Env holds flag defaults read from the process environment and .env files.
type Env struct {
	Schema  string
	Strict  bool
	Backend string
}

// ReadEnv reads defaults from files, then from the process environment.
// Process variables win over file entries, and earlier files win over later
// ones. Missing files are skipped.
func ReadEnv(files ...string) (Env, error) {
	values := make(map[string]string)
	for _, file := range files {
		m, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Env{}, fmt.Errorf("read %s: %w", file, err)
		}
		for k, v := range m {
			if _, ok := values[k]; !ok {
				values[k] = v
			}
		}
	}
	for _, k := range []string{EnvSchema, EnvStrict, EnvBackend} {
		if v, ok := os.LookupEnv(k); ok {
			values[k] = v
		}
	}

	env := Env{
		Schema:  values[EnvSchema],
		Backend: values[EnvBackend],
	}
	if raw := values[EnvStrict]; raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return Env{}, fmt.Errorf("%s: %w", EnvStrict, err)
		}
		env.Strict = strict
	}
	return env, nil
}
