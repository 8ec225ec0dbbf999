package assets

import (
	"fmt"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DurationReader reports the playback length of a local media file in seconds.
type DurationReader interface {
	MediaDuration(path string) (float64, error)
}

// FFmpegDuration reads container metadata through ffmpeg-go.
type FFmpegDuration struct{}

func (FFmpegDuration) MediaDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("read media metadata %s: %w", path, err)
	}
	return ParseFormatDuration(out)
}

// ParseFormatDuration reads format.duration from ffmpeg JSON metadata.
func ParseFormatDuration(metaJSON string) (float64, error) {
	if !gjson.Valid(metaJSON) {
		return 0, fmt.Errorf("media metadata is not valid json")
	}
	d := gjson.Get(metaJSON, "format.duration")
	if !d.Exists() {
		return 0, fmt.Errorf("media metadata has no format.duration")
	}
	duration := d.Float()
	if duration < 0 {
		return 0, fmt.Errorf("negative duration %v", duration)
	}
	return duration, nil
}
