// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys and account identifiers from three
// places, in order of precedence: the process environment, a .env file, and
// a .secrets/ directory holding one plain-text file per key.
//
// Directory entries are named in kebab case (anthropic-api-key); lookups use
// the environment name (ANTHROPIC_API_KEY). Both spellings resolve to the
// same key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/subosito/gotenv"
)

// Well-known keys.
const (
	AnthropicAPIKey       = "ANTHROPIC_API_KEY"
	GeminiAPIKey          = "GEMINI_API_KEY"
	GoogleCredentialsPath = "GOOGLE_CREDENTIALS_PATH"
	BloggerBlogID         = "BLOGGER_BLOG_ID"
	NaverBlogID           = "NAVER_BLOG_ID"
)

// EnvName converts a secret file name to its environment variable name.
func EnvName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

// Load reads all files in dir and returns a map of environment-style key to
// trimmed contents. A missing directory is not an error; Load returns an
// empty map. Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[EnvName(entry.Name())] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv parses a .env file. A missing file yields an empty map.
func LoadDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	env, err := gotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		if v = strings.TrimSpace(v); v != "" {
			out[EnvName(k)] = v
		}
	}
	return out, nil
}

// Store is a resolved set of secrets.
type Store struct {
	dotenv map[string]string
	files  map[string]string
	getenv func(string) string
}

// Open loads the .env file and .secrets/ directory under root.
func Open(root string) (*Store, error) {
	files, err := Load(filepath.Join(root, ".secrets"))
	if err != nil {
		return nil, err
	}
	dotenv, err := LoadDotEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	return &Store{dotenv: dotenv, files: files, getenv: os.Getenv}, nil
}

// Get returns the value of key, or "" when no source defines it.
func (s *Store) Get(key string) string {
	key = EnvName(key)
	if s.getenv != nil {
		if v := strings.TrimSpace(s.getenv(key)); v != "" {
			return v
		}
	}
	if v, ok := s.dotenv[key]; ok {
		return v
	}
	return s.files[key]
}

// GetDefault returns the value of key, or fallback when it is unset.
func (s *Store) GetDefault(key, fallback string) string {
	if v := s.Get(key); v != "" {
		return v
	}
	return fallback
}

// Keys lists the keys defined by the file-based sources, sorted. Values are
// never listed.
func (s *Store) Keys() []string {
	seen := make(map[string]bool)
	for k := range s.dotenv {
		seen[k] = true
	}
	for k := range s.files {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
