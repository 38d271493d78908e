package assets

import (
	"path"
	"strings"
)

// Category is the top-level folder of the normalized media tree.
type Category string

const (
	CategoryImages Category = "images"
	CategoryFiles  Category = "files"
	CategoryVideo  Category = "video"
	CategoryAudio  Category = "audio"
)

var categoryByExt = map[string]Category{
	".jpg": CategoryImages, ".jpeg": CategoryImages, ".png": CategoryImages, ".gif": CategoryImages,
	".webp": CategoryImages, ".svg": CategoryImages, ".avif": CategoryImages, ".bmp": CategoryImages,
	".ico": CategoryImages, ".tif": CategoryImages, ".tiff": CategoryImages,
	".mp4": CategoryVideo, ".webm": CategoryVideo, ".mov": CategoryVideo, ".m4v": CategoryVideo,
	".ogv": CategoryVideo, ".avi": CategoryVideo,
	".mp3": CategoryAudio, ".wav": CategoryAudio, ".ogg": CategoryAudio, ".m4a": CategoryAudio,
	".flac": CategoryAudio, ".aac": CategoryAudio,
}

// CategoryOf classifies name by extension. Unknown extensions are files.
func CategoryOf(name string) Category {
	if c, ok := categoryByExt[strings.ToLower(path.Ext(name))]; ok {
		return c
	}
	return CategoryFiles
}

// CanonicalPath returns /assets/<category>/<filename> for the base name of name.
func CanonicalPath(name string) string {
	base := path.Base(name)
	return "/assets/" + string(CategoryOf(base)) + "/" + base
}

// IsRaster reports whether name is an image format the re-encoder accepts.
func IsRaster(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}
