// Package envfile resolves file keys to paths through the process
// environment, populated from a .env file.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"

	"github.com/xtxerr/oscana/internal/errors"
)

// Load populates the process environment from the given .env files.
// Variables already set in the environment are not overridden.
// A missing default file is not an error when optional is true.
func Load(optional bool, paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if optional && os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("env file %s: %w", p, errors.ErrFileNotFound)
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Resolver maps file keys to existing paths on disk.
type Resolver struct {
	// Lookup reads an environment variable. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
	// Stat checks a path. Defaults to os.Stat.
	Stat func(path string) (os.FileInfo, error)
	// GOOS selects the path rewrite. Defaults to runtime.GOOS.
	GOOS string
}

// NewResolver returns a resolver over the process environment.
func NewResolver() *Resolver {
	return &Resolver{
		Lookup: os.LookupEnv,
		Stat:   os.Stat,
		GOOS:   runtime.GOOS,
	}
}

// MapResolver returns a resolver over a fixed key set. Used in tests and
// when keys come from a config file instead of the environment.
func MapResolver(m map[string]string) *Resolver {
	r := NewResolver()
	r.Lookup = func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
	return r
}

// Resolve returns the path a key points to.
//
// It fails with ErrEnvKeyNotFound if the key is absent and with
// ErrFileNotFound if the resolved path does not exist.
func (r *Resolver) Resolve(key string) (string, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}

	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("'%s': %w", key, errors.ErrEnvKeyNotFound)
	}

	path := raw
	if r.goos() == "linux" {
		path = WSLPath(raw)
	}
	path = filepath.Clean(path)

	if _, err := stat(path); err != nil {
		return "", fmt.Errorf("'%s' -> %s: %w", key, path, errors.ErrFileNotFound)
	}
	return path, nil
}

// ResolveAll resolves every key in order, stopping at the first error.
func (r *Resolver) ResolveAll(keys []string) ([]string, error) {
	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		p, err := r.Resolve(k)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (r *Resolver) goos() string {
	if r.GOOS == "" {
		return runtime.GOOS
	}
	return r.GOOS
}

var drivePrefix = regexp.MustCompile(`^([A-Za-z]):(?://|\\\\|/|\\)`)

// WSLPath rewrites a Windows drive path such as "D://data/run.root" to its
// WSL mount "/mnt/d/data/run.root". Other paths are returned unchanged.
func WSLPath(p string) string {
	m := drivePrefix.FindStringSubmatch(p)
	if m == nil {
		return p
	}
	rest := strings.ReplaceAll(p[len(m[0]):], `\`, "/")
	return "/mnt/" + strings.ToLower(m[1]) + "/" + rest
}
