package fetch

import (
	"bytes"
	"image"
	"strings"

	// Registered decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	exif "github.com/dsoprea/go-exif/v3"
)

// ImageInfo describes a downloaded image.
type ImageInfo struct {
	Width   int
	Height  int
	TakenAt string
}

// probeImage extracts pixel dimensions and the EXIF capture timestamp
// from image bytes. Probing is opportunistic: anything that fails
// just leaves the corresponding fields zero, because a photo without
// readable metadata is still a perfectly good archive asset.
func probeImage(mimetype string, data []byte) ImageInfo {
	if !strings.HasPrefix(mimetype, "image/") {
		return ImageInfo{}
	}

	var info ImageInfo
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Width = cfg.Width
		info.Height = cfg.Height
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return info
	}
	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return info
	}
	for _, tag := range tags {
		if tag.TagName == "DateTimeOriginal" || (tag.TagName == "DateTime" && info.TakenAt == "") {
			info.TakenAt = tag.FormattedFirst
		}
	}
	return info
}
