package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"

	"targetrules/internal/ctxlog"
	"targetrules/internal/settings"
	"targetrules/internal/target"
)

// Source is a descriptor spec together with the file it came from.
type Source struct {
	Path string
	Spec target.Spec
}

// LoadDescriptors reads descriptor specs from files and directories.
// Directories are searched recursively for .yaml, .yml and .hcl files.
// Specs are returned in file order, then in order within each file.
func LoadDescriptors(ctx context.Context, paths ...string) ([]Source, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		logger.Warn("No descriptor files found.", "paths", paths)
		return nil, nil
	}

	parser := hclparse.NewParser()

	var out []Source

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read descriptor file %s: %w", file, err)
		}

		var specs []target.Spec

		switch strings.ToLower(filepath.Ext(file)) {
		case extHCL:
			specs, err = parseDescriptorsHCL(parser, data, file)
		default:
			specs, err = ParseDescriptorsYAML(data)
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		logger.Debug("Loaded descriptor file.", "path", file, "targets", len(specs))

		for _, s := range specs {
			out = append(out, Source{Path: file, Spec: s})
		}
	}

	return out, nil
}

// ParseDescriptorsYAML parses a YAML stream holding one descriptor per
// document. Empty documents are skipped and unknown keys are rejected.
func ParseDescriptorsYAML(data []byte) ([]target.Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var specs []target.Spec

	for doc := 1; ; doc++ {
		var s target.Spec

		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse descriptor YAML (document %d): %w", doc, err)
		}

		if reflect.ValueOf(s).IsZero() {
			continue
		}

		specs = append(specs, s)
	}

	return specs, nil
}

// ParseDescriptorsHCL parses HCL source holding target blocks:
//
//	target "Runners" {
//	  kind                  = "Executable"
//	  settings_version      = "V4"
//	  include_order_version = "Unreal5_3"
//	  modules               = ["Runners"]
//	  overrides = {
//	    strict_conformance = true
//	  }
//	}
//
// Override values may be strings, numbers or bools. The variables
// settings.latest, include_order.latest and include_order.oldest name the
// version aliases.
func ParseDescriptorsHCL(data []byte, filename string) ([]target.Spec, error) {
	return parseDescriptorsHCL(hclparse.NewParser(), data, filename)
}

type hclDescriptorFile struct {
	Targets []*hclTarget `hcl:"target,block"`
}

type hclTarget struct {
	Name                string         `hcl:"name,label"`
	Kind                string         `hcl:"kind"`
	SettingsVersion     string         `hcl:"settings_version"`
	IncludeOrderVersion string         `hcl:"include_order_version"`
	Modules             []string       `hcl:"modules,optional"`
	EntryModule         string         `hcl:"entry_module,optional"`
	Overrides           hcl.Expression `hcl:"overrides,optional"`
}

var hclEvalContext = &hcl.EvalContext{
	Variables: map[string]cty.Value{
		"settings": cty.ObjectVal(map[string]cty.Value{
			"latest": cty.StringVal(string(settings.LatestVersion)),
		}),
		"include_order": cty.ObjectVal(map[string]cty.Value{
			"latest": cty.StringVal(string(settings.LatestIncludeOrder)),
			"oldest": cty.StringVal(string(settings.OldestIncludeOrder)),
		}),
	},
}

func parseDescriptorsHCL(parser *hclparse.Parser, data []byte, filename string) ([]target.Spec, error) {
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var parsed hclDescriptorFile

	diags = gohcl.DecodeBody(file.Body, hclEvalContext, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	specs := make([]target.Spec, 0, len(parsed.Targets))

	for _, t := range parsed.Targets {
		overrides, diags := decodeOverrides(t.Overrides)
		if diags.HasErrors() {
			return nil, fmt.Errorf("target %q: %w", t.Name, diags)
		}

		specs = append(specs, target.Spec{
			Name:                t.Name,
			Kind:                t.Kind,
			SettingsVersion:     t.SettingsVersion,
			IncludeOrderVersion: t.IncludeOrderVersion,
			Modules:             t.Modules,
			EntryModule:         t.EntryModule,
			Overrides:           overrides,
		})
	}

	return specs, nil
}

func decodeOverrides(expr hcl.Expression) (map[string]string, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(hclEvalContext)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}

	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid overrides",
			Detail:   "overrides must be an object of option = value pairs.",
			Subject:  expr.Range().Ptr(),
		})
	}

	out := make(map[string]string, val.LengthInt())

	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()

		s, err := convert.Convert(v, cty.String)
		if err != nil || s.IsNull() || !s.IsKnown() {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid override value",
				Detail:   fmt.Sprintf("Override %q must be a string, number or bool.", name),
				Subject:  expr.Range().Ptr(),
			})

			continue
		}

		out[name] = s.AsString()
	}

	return out, diags
}
