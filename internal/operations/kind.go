package operations

import (
	"path/filepath"
	"strings"
)

// MediaKind selects the rule table used to resolve a request.
type MediaKind string

const (
	KindUnknown MediaKind = ""
	KindVideo   MediaKind = "video"
	KindImage   MediaKind = "image"
)

var extensionKinds = map[string]MediaKind{
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".avi":  KindVideo,
	".webm": KindVideo,
	".m4v":  KindVideo,
	".flv":  KindVideo,
	".wmv":  KindVideo,
	".mpg":  KindVideo,
	".mpeg": KindVideo,
	".ts":   KindVideo,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,
	".tif":  KindImage,
	".tiff": KindImage,
	".webp": KindImage,
}

// DetectKind classifies a path by its extension.
func DetectKind(path string) MediaKind {
	return extensionKinds[strings.ToLower(filepath.Ext(path))]
}
