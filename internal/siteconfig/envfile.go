package siteconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// UpdateEnvFile sets each of props in the env file at path.
//
// The file is patched line by line rather than re-serialized:
//   - a line without "=" (comment, blank) is kept as is;
//   - a KEY=VALUE line whose trimmed key is in props and not yet written is
//     replaced by "KEY=value"; later duplicates of that key are kept as is;
//   - keys of props never seen in the file are appended in props order.
//
// Applying the same props twice leaves the file unchanged. A trailing
// newline is preserved, and an empty file gets one.
func UpdateEnvFile(path string, props model.Vars) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("env file %s: %w", path, model.ClassifyFSError(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", model.ClassifyFSError(err))
	}

	patched := PatchEnv(string(data), props)

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write env file: %w", model.ClassifyFSError(err))
	}
	return nil
}

// PatchEnv is the pure core of UpdateEnvFile.
func PatchEnv(content string, props model.Vars) string {
	pending := props.Map()
	trailingNewline := content == "" || strings.HasSuffix(content, "\n")

	var lines []string
	if content != "" {
		lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	}

	out := make([]string, 0, len(lines)+len(props))
	for _, line := range lines {
		key, _, ok := strings.Cut(line, "=")
		if !ok {
			out = append(out, line)
			continue
		}
		key = strings.TrimSpace(key)
		value, want := pending[key]
		if !want {
			out = append(out, line)
			continue
		}
		out = append(out, key+"="+value)
		delete(pending, key)
	}

	for _, p := range props {
		if value, ok := pending[p.Name]; ok {
			out = append(out, p.Name+"="+value)
			delete(pending, p.Name)
		}
	}

	if len(out) == 0 {
		return content
	}
	result := strings.Join(out, "\n")
	if trailingNewline {
		result += "\n"
	}
	return result
}

// ReadEnvFile parses the env file at path into a map.
func ReadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, model.ClassifyFSError(err))
	}
	return ParseEnv(string(data)), nil
}

// ParseEnv reads the KEY=VALUE lines of an env file, the same lines PatchEnv
// rewrites. Lines without "=", comments and blank lines are passed over, so
// notes kept in the file never hide the values around them.
//
// Each assignment is decoded by godotenv on its own, which handles quoting,
// "export" and inline comments. An assignment godotenv rejects (say, an
// unquoted value starting with a quote) keeps its raw value after the first
// "=". Later assignments of a key win.
func ParseEnv(content string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if parsed, err := godotenv.Unmarshal(line); err == nil && len(parsed) == 1 {
			for k, v := range parsed {
				values[k] = v
			}
			continue
		}
		values[strings.TrimPrefix(key, "export ")] = strings.TrimSpace(raw)
	}
	return values
}
