package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/unshred/pkg/errors"
)

// WriteJSON encodes rep as indented JSON to w.
func WriteJSON(rep Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode report")
	}
	return nil
}

// ExportJSON writes rep to a JSON file at path.
func ExportJSON(rep Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := WriteJSON(rep, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
