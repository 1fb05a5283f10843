package google

import (
	"io"
	"path/filepath"
	"strings"

	// Packages
	mimetype "github.com/gabriel-vasile/mimetype"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultMIMEType = "application/octet-stream"
)

// Types the API expects which differ from what content sniffing reports,
// or which cannot be sniffed
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".aiff": "audio/aiff",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".webm": "video/webm",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".3gp":  "video/3gpp",
	".3gpp": "video/3gpp",
	".pdf":  "application/pdf",
	".js":   "application/x-javascript",
	".py":   "application/x-python",
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".md":   "text/md",
	".csv":  "text/csv",
	".xml":  "text/xml",
	".rtf":  "text/rtf",
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DetectMIMEType returns the MIME type for a file from its extension,
// falling back to sniffing the data
func DetectMIMEType(filename string, data []byte) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	if len(data) == 0 {
		return defaultMIMEType
	}
	return baseType(mimetype.Detect(data).String())
}

// DetectMIMETypeReader is DetectMIMEType for a reader, which must be
// rewound by the caller if the content is to be read again
func DetectMIMETypeReader(filename string, r io.Reader) (string, error) {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t, nil
	}
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	return baseType(m.String()), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// baseType removes parameters such as "; charset=utf-8"
func baseType(value string) string {
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}
