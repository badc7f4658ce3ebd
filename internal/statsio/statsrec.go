package statsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jayvdb/jaeger-stats/internal/stats"
	"github.com/jayvdb/jaeger-stats/pkg/persist"
)

// knownSuffixes lists every codec's file suffix, longest (compressed)
// first so a ".json.lz4" path is not mistaken for plain ".json".
var knownSuffixes = []struct {
	suffix string
	name   string
}{
	{".json.lz4", "json_lz4"},
	{".bson.lz4", "bson_lz4"},
	{".gob.lz4", "bincode_lz4"},
	{".json", "json"},
	{".bson", "bson"},
	{".gob", "bincode"},
}

// SaveStatsRec writes rec to dir/basename with the codec named by ext
// ("json", "bson", "bincode", or any of those suffixed "_lz4"). It
// returns the path written.
func SaveStatsRec(dir, basename, ext string, rec *stats.StatsRec) (string, error) {
	codec, err := CodecFor(ext)
	if err != nil {
		return "", err
	}

	err = persist.SaveState(dir, basename, codec, rec)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, basename+codec.Extension()), nil
}

// LoadStatsRec loads a StatsRec from path, inferring its codec from the
// file's extension. It satisfies stitch.Loader.
func LoadStatsRec(path string) (*stats.StatsRec, error) {
	codec, err := codecForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stats record %q: %w", path, err)
	}
	defer file.Close()

	rec := stats.NewStatsRec(0)

	err = codec.Decode(file, rec)
	if err != nil {
		return nil, fmt.Errorf("decode stats record %q: %w", path, err)
	}

	return rec, nil
}

func codecForPath(path string) (persist.Codec, error) {
	for _, known := range knownSuffixes {
		if strings.HasSuffix(path, known.suffix) {
			return CodecFor(known.name)
		}
	}

	return nil, fmt.Errorf("statsio: cannot infer codec from path %q", path)
}
