package domain

import (
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/deitry/vscode-colcon-helper/internal/adapter"
	m "github.com/deitry/vscode-colcon-helper/internal/model"
)

// EnvironmentStore loads materialized environment files and caches the parsed
// variables per file until the next refresh invalidates them.
type EnvironmentStore interface {
	// Load returns the variables of path. ok is false when the file does not exist.
	Load(path string) (env map[string]string, ok bool, err error)

	// Invalidate drops the cached variables of path.
	Invalidate(path string)
}

type environmentStore struct {
	fs adapter.WorkspaceFSAdapter

	mu    sync.Mutex
	cache map[string]map[string]string
}

// NewEnvironmentStore constructs an EnvironmentStore reading through fs.
func NewEnvironmentStore(fs adapter.WorkspaceFSAdapter) EnvironmentStore {
	return &environmentStore{
		fs:    fs,
		cache: make(map[string]map[string]string),
	}
}

func (s *environmentStore) Load(path string) (map[string]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if env, ok := s.cache[path]; ok {
		return env, true, nil
	}

	if !s.fs.Exists(m.Path(path)) {
		return nil, false, nil
	}

	content, err := s.fs.ReadFile(m.Path(path))
	if err != nil {
		return nil, false, errors.Wrapf(err, "read environment file %s", path)
	}

	env := ParseEnvironment(content)
	s.cache[path] = env

	return env, true, nil
}

func (s *environmentStore) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, path)
}

// ParseEnvironment parses the KEY=VALUE lines written by an environment dump.
// Values are kept verbatim. Blank lines, continuation lines of multi-line
// values and names containing spaces are skipped.
func ParseEnvironment(content []byte) map[string]string {
	env := make(map[string]string)

	for _, line := range strings.Split(string(content), "\n") {
		key, value, ok := cutPair(strings.TrimSuffix(line, "\r"))
		if !ok || strings.ContainsFunc(key, unicode.IsSpace) {
			continue
		}

		env[key] = value
	}

	return env
}

// MergeEnvironment layers overrides on top of the KEY=VALUE pairs of base.
func MergeEnvironment(base []string, overrides map[string]string) []string {
	merged := make(map[string]string, len(base)+len(overrides))

	for _, pair := range base {
		key, value, ok := cutPair(pair)
		if ok {
			merged[key] = value
		}
	}

	for key, value := range overrides {
		merged[key] = value
	}

	return EnvironList(merged)
}

// EnvironList renders env as sorted KEY=VALUE pairs.
func EnvironList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, key := range keys {
		list = append(list, key+"="+env[key])
	}

	return list
}

// ProcessEnvironment is the environment for shell commands run on behalf of
// cfg: the inherited environment, with the configured defaults on top. Nil
// means inherit unchanged.
func ProcessEnvironment(cfg m.Config) []string {
	if cfg.DefaultEnv == nil {
		return nil
	}

	return MergeEnvironment(os.Environ(), cfg.DefaultEnv)
}

func cutPair(pair string) (string, string, bool) {
	for i := 1; i < len(pair); i++ {
		// windows keeps per-drive variables such as "=C:=C:\\" in its block
		if pair[i] == '=' {
			return pair[:i], pair[i+1:], true
		}
	}

	return "", "", false
}
