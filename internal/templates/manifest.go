package templates

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// ManifestFilename is the optional metadata file at the root of a
// template package.
const ManifestFilename = "conf.json"

// Manifest holds the recognized template package metadata. The only
// recognized key is base_template; an empty value is treated the same
// as an absent one.
type Manifest struct {
	BaseTemplate string `json:"base_template"`
}

// ParseManifest unmarshals manifest bytes. Comments and trailing
// commas are stripped first, so hand-authored conf.json files may
// carry // and /* */ comments.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads <dir>/conf.json. A missing file is not an error:
// the manifest is optional, so (nil, nil) is returned. An unreadable
// or malformed file is returned as an error; the resolver downgrades
// that to a warning and proceeds as if no manifest were present.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseManifest(data)
}
