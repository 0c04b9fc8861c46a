package transcode

import "fmt"

// Variant is one output of the fixed transcoding matrix: two resolutions
// crossed with two container/codec pairs.
type Variant struct {
	Task  string // progress field prefix, e.g. "highMP4"
	Label string // resolution label used in the rendition key
	Size  string // ffmpeg frame size
	Codec string // ffmpeg video codec
	Ext   string // container extension
}

// Variants is the full matrix. Every job produces exactly these four
// renditions.
var Variants = []Variant{
	{Task: "highMP4", Label: "high", Size: "1280x720", Codec: "libx264", Ext: "mp4"},
	{Task: "lowMP4", Label: "low", Size: "640x360", Codec: "libx264", Ext: "mp4"},
	{Task: "highWEBM", Label: "high", Size: "1280x720", Codec: "libvpx", Ext: "webm"},
	{Task: "lowWEBM", Label: "low", Size: "640x360", Codec: "libvpx", Ext: "webm"},
}

// FileName returns the deterministic rendition name for a video, which is
// both the local output filename and the blob key.
func (v Variant) FileName(videoID string) string {
	return fmt.Sprintf("%s_%s.%s", videoID, v.Label, v.Ext)
}

// RenditionKeys returns the four blob keys a finished video occupies.
func RenditionKeys(videoID string) []string {
	keys := make([]string, 0, len(Variants))
	for _, v := range Variants {
		keys = append(keys, v.FileName(videoID))
	}
	return keys
}
