package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/tsgonest/tsreflect/internal/metadata"
	"github.com/tsgonest/tsreflect/reflection"
)

// Output file names, relative to the output directory.
const (
	ManifestFile = "reflection.json"
	ModuleFile   = "reflection.js"
)

// Manifest is the reflection.json structure. It records, per site, the
// expression that replaces the call and the raw reflection result.
type Manifest struct {
	Version string         `json:"version"`
	Sites   []ManifestSite `json:"sites"`
}

// ManifestSite is the manifest entry of one reflection site.
type ManifestSite struct {
	ID         string                          `json:"id"`
	Op         metadata.Operation              `json:"op"`
	Expression string                          `json:"expression"`
	Properties []reflection.PropertyDescriptor `json:"properties,omitzero"`
	Values     []metadata.Literal              `json:"values,omitzero"`
}

// GenerateManifest creates a manifest from site results in site order.
func GenerateManifest(results []SiteResult, version string, opts ModuleOptions) (*Manifest, error) {
	m := &Manifest{Version: version, Sites: make([]ManifestSite, 0, len(results))}
	for _, r := range results {
		expr, err := Expression(r, opts)
		if err != nil {
			return nil, err
		}
		m.Sites = append(m.Sites, ManifestSite{
			ID:         r.ID,
			Op:         r.Op,
			Expression: expr,
			Properties: r.Properties,
			Values:     r.Values,
		})
	}
	return m, nil
}

// ManifestJSON serializes the manifest to pretty-printed JSON.
func ManifestJSON(m *Manifest) ([]byte, error) {
	return json.Marshal(m, jsontext.WithIndent("  "), json.Deterministic(true))
}

// WriteOutputs renders the module and manifest for results into outDir and
// returns the written paths.
func WriteOutputs(outDir string, results []SiteResult, version string, opts ModuleOptions) ([]string, error) {
	module, err := GenerateModule(results, opts)
	if err != nil {
		return nil, err
	}
	manifest, err := GenerateManifest(results, version, opts)
	if err != nil {
		return nil, err
	}
	manifestJSON, err := ManifestJSON(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{ModuleFile, []byte(module)},
		{ManifestFile, append(manifestJSON, '\n')},
	}
	var written []string
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
