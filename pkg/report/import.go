package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/unshred/pkg/errors"
)

// ReadJSON decodes a report from r and checks that every strip name is
// non-empty and unique. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeDecode, err, "decode report")
	}
	if err := rep.validate(); err != nil {
		return Report{}, err
	}
	return rep, nil
}

// ImportJSON reads the report file at path.
func ImportJSON(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return Report{}, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
