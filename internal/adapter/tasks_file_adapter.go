package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const emptyTasksFile = `{"version":"2.0.0","tasks":[]}`

// TasksFileAdapter writes task entries into an editor tasks.json file.
type TasksFileAdapter interface {
	// Merge replaces every entry whose "type" is in ownedTypes with entries,
	// keeping all other content of the file untouched.
	Merge(path string, ownedTypes []string, entries []any) error
}

// JSONTasksFileAdapter edits tasks.json in place with gjson/sjson.
type JSONTasksFileAdapter struct{}

// NewJSONTasksFileAdapter constructs a JSONTasksFileAdapter.
func NewJSONTasksFileAdapter() *JSONTasksFileAdapter {
	return &JSONTasksFileAdapter{}
}

// Merge implements TasksFileAdapter.
func (a *JSONTasksFileAdapter) Merge(path string, ownedTypes []string, entries []any) error {
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from a workspace folder
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "read %s", path)
		}

		data = []byte(emptyTasksFile)
	}

	if !gjson.ValidBytes(data) {
		return errors.WithHint(
			errors.Newf("%s is not valid JSON", path),
			"tasks.json files with comments or trailing commas cannot be merged; remove them or delete the file",
		)
	}

	kept := make([]string, 0)

	gjson.GetBytes(data, "tasks").ForEach(func(_, entry gjson.Result) bool {
		if !slices.Contains(ownedTypes, entry.Get("type").String()) {
			kept = append(kept, entry.Raw)
		}

		return true
	})

	for _, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, "encode task entry")
		}

		kept = append(kept, string(raw))
	}

	data, err = sjson.SetRawBytes(data, "tasks", []byte("["+strings.Join(kept, ",")+"]"))
	if err != nil {
		return errors.Wrap(err, "set tasks")
	}

	if !gjson.GetBytes(data, "version").Exists() {
		data, err = sjson.SetBytes(data, "version", "2.0.0")
		if err != nil {
			return errors.Wrap(err, "set version")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	return os.WriteFile(path, pretty.Pretty(data), 0o600)
}
