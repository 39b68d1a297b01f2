package main

import (
	"mime"
	"path/filepath"
	"strings"
)

// Extra types layered over the platform table, from the MDN list of MIME
// types that matter for web deploys. The platform tables on some systems
// are missing or wrong for several of these.
var extraMimeTypes = map[string][]string{
	"application/manifest+json": {".webmanifest"},
	"application/ogg":           {".ogg"},
	"audio/wave":                {".wav"},
	"font/otf":                  {".otf"},
	"font/ttf":                  {".ttf"},
	"font/woff":                 {".woff"},
	"font/woff2":                {".woff2"},
	"image/gif":                 {".gif"},
	"image/jpeg":                {".jpeg", ".jpg"},
	"image/png":                 {".png"},
	"image/svg+xml":             {".svg"},
	"image/webp":                {".webp"},
	"image/x-icon":              {".ico"},
	"text/css":                  {".css"},
	"text/html":                 {".html", ".htm"},
	"text/javascript":           {".js"},
	"video/webm":                {".webm"},
}

var contentEncodings = map[string]string{
	".br": "br",
	".gz": "gzip",
}

func init() {
	for mimetype, extensions := range extraMimeTypes {
		for _, extension := range extensions {
			mime.AddExtensionType(extension, mimetype)
		}
	}
}

// guessType returns the content type and content encoding for a file name,
// either of which may be empty. The type is returned without parameters so
// callers can append their own charset.
func guessType(fileName string) (contentType, contentEncoding string) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if encoding, ok := contentEncodings[ext]; ok {
		contentEncoding = encoding
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(fileName, ext)))
	}
	contentType = mime.TypeByExtension(ext)
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType, contentEncoding
}
