package fixture

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// LoadYAML reads a snapshot from a YAML file.
func LoadYAML(path string) (model.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Snapshot{}, eris.Wrapf(err, "fixture: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return DecodeYAML(f)
}

// DecodeYAML decodes a snapshot document. Unknown keys are rejected so typos
// in hand-written fixtures surface early.
func DecodeYAML(r io.Reader) (model.Snapshot, error) {
	var snap model.Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil && err != io.EOF {
		return model.Snapshot{}, eris.Wrap(err, "fixture: decode yaml")
	}
	return snap, nil
}
