package loader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"targetrules/internal/ctxlog"
	"targetrules/internal/modgraph"
)

type catalogFile struct {
	Modules []modgraph.Module `yaml:"modules"`
}

// LoadCatalog reads a module catalog file.
func LoadCatalog(ctx context.Context, path string) (*modgraph.StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module catalog %s: %w", path, err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Loaded module catalog.", "path", path, "modules", len(c.Names()))

	return c, nil
}

// ParseCatalog parses a module catalog:
//
//	modules:
//	  - name: Runners
//	    entry_point: true
//	    dependencies: [Core]
//	  - name: Core
//
// Module names must be unique. Dependencies are not checked here, so a
// catalog may name modules it does not define; the graph builder reports
// them when they are reached.
func ParseCatalog(data []byte) (*modgraph.StaticCatalog, error) {
	var f catalogFile

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse module catalog YAML: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Modules))

	var errs []error

	for i, m := range f.Modules {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("module %d: name is required", i+1))
			continue
		}

		if _, ok := seen[m.Name]; ok {
			errs = append(errs, fmt.Errorf("module %q: defined more than once", m.Name))
			continue
		}

		seen[m.Name] = struct{}{}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid module catalog: %w", err)
	}

	return modgraph.NewStaticCatalog(f.Modules...), nil
}
