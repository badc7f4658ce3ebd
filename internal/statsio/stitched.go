package statsio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jayvdb/jaeger-stats/internal/stitch"
	"github.com/jayvdb/jaeger-stats/pkg/persist"
)

// SaveStitched writes result to dir/basename with the codec named by ext.
// It returns the path written.
func SaveStitched(dir, basename, ext string, result *stitch.Stitched) (string, error) {
	codec, err := CodecFor(ext)
	if err != nil {
		return "", err
	}

	err = persist.SaveState(dir, basename, codec, result)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, basename+codec.Extension()), nil
}

// LoadStitched loads a Stitched dataset from path, inferring its codec
// from the file's extension.
func LoadStitched(path string) (*stitch.Stitched, error) {
	codec, err := codecForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stitched record %q: %w", path, err)
	}
	defer file.Close()

	var result stitch.Stitched

	err = codec.Decode(file, &result)
	if err != nil {
		return nil, fmt.Errorf("decode stitched record %q: %w", path, err)
	}

	return &result, nil
}
