package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// ErrDescriptorNotFound is returned by FindDescriptor when no descriptor exists
// within the search depth.
var ErrDescriptorNotFound = errors.New("project descriptor not found")

type descriptorFile struct {
	Project map[string]any `toml:"project"`
}

// FindDescriptor looks for DescriptorName in dir and up to depth parent directories.
func FindDescriptor(dir string, depth int) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	for level := 0; level <= depth; level++ {
		candidate := filepath.Join(dir, DescriptorName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrDescriptorNotFound
}

// ReadDescriptor parses the [project] table of a descriptor. Scalar values are
// returned as strings; empty values, nested tables, arrays and unknown types
// are dropped.
func ReadDescriptor(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var doc descriptorFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}

	out := make(map[string]string, len(doc.Project))
	for key, raw := range doc.Project {
		if value, ok := coerceString(raw); ok && strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	return out, nil
}

func (l *loader) loadDescriptor() map[string]string {
	path := l.descriptor
	if path == "" {
		found, err := FindDescriptor(l.searchDir, l.searchDepth)
		if err != nil {
			l.logger.Debug("no project descriptor", zap.Error(err))
			return nil
		}
		path = found
	}

	project, err := ReadDescriptor(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("project descriptor missing", zap.String("path", path))
		} else {
			l.logger.Warn("ignoring project descriptor", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	return project
}

func coerceString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.Format(time.RFC3339), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
