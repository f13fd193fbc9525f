// Package suppitem implements the supplemental-item registry of spec.md
// section 6: a mapping from a small enumeration of auxiliary file roles to
// both a default filename and, once opened, a stream handle and the
// truncate callback that grows its backing.
package suppitem

import (
	_ "embed"
	"strings"

	"github.com/gocarina/gocsv"

	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
)

// Kind names one of the auxiliary files a higher layer may need alongside
// a game asset's primary data.
type Kind int

const (
	Dictionary Kind = iota
	FAT
	Palette
	Instruments
)

func (k Kind) String() string {
	switch k {
	case Dictionary:
		return "dictionary"
	case FAT:
		return "fat"
	case Palette:
		return "palette"
	case Instruments:
		return "instruments"
	default:
		return "unknown"
	}
}

type filenameRow struct {
	Kind     string `csv:"kind"`
	Filename string `csv:"filename"`
}

//go:embed filenames.csv
var filenamesRawCSV string

var defaultFilenames map[string]string

func init() {
	defaultFilenames = make(map[string]string)
	err := gocsv.UnmarshalToCallback(strings.NewReader(filenamesRawCSV), func(row filenameRow) error {
		defaultFilenames[row.Kind] = row.Filename
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// DefaultFilename returns the conventional filename for kind.
func DefaultFilename(kind Kind) (string, error) {
	name, ok := defaultFilenames[kind.String()]
	if !ok {
		return "", streamerrors.ErrInvalidArgument.WithMessage("no default filename for " + kind.String())
	}
	return name, nil
}
