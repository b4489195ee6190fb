package formdata

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Extension variants for types that depend on how the file is used.
const (
	VariantReadable    = "readable"
	VariantNotReadable = "not-readable"
	VariantVideo       = "video"
	VariantAudioOnly   = "audio-only"
)

// variantTypes lists extensions whose type depends on a variant. The ""
// entry is the default.
var variantTypes = map[string]map[string]string{
	".xml": {"": "text/xml", VariantReadable: "text/xml", VariantNotReadable: "application/xml"},
	".3gp": {"": "video/3gpp", VariantVideo: "video/3gpp", VariantAudioOnly: "audio/3gpp"},
	".3g2": {"": "video/3gpp2", VariantVideo: "video/3gpp2", VariantAudioOnly: "audio/3gpp2"},
}

var extensionTypes = map[string]string{
	".aac":    "audio/aac",
	".abw":    "application/x-abiword",
	".arc":    "application/x-freearc",
	".avi":    "video/x-msvideo",
	".azw":    "application/vnd.amazon.ebook",
	".bin":    "application/octet-stream",
	".bmp":    "image/bmp",
	".bz":     "application/x-bzip",
	".bz2":    "application/x-bzip2",
	".csh":    "application/x-csh",
	".css":    "text/css",
	".csv":    "text/csv",
	".doc":    "application/msword",
	".docx":   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".eot":    "application/vnd.ms-fontobject",
	".epub":   "application/epub+zip",
	".gz":     "application/gzip",
	".gif":    "image/gif",
	".htm":    "text/html",
	".html":   "text/html",
	".ico":    "image/vnd.microsoft.icon",
	".ics":    "text/calendar",
	".jar":    "application/java-archive",
	".jpeg":   "image/jpeg",
	".jpg":    "image/jpeg",
	".js":     "text/javascript",
	".json":   "application/json",
	".jsonld": "application/ld+json",
	".mid":    "audio/midi",
	".midi":   "audio/midi",
	".mjs":    "text/javascript",
	".mp3":    "audio/mpeg",
	".mpeg":   "video/mpeg",
	".mpkg":   "application/vnd.apple.installer+xml",
	".odp":    "application/vnd.oasis.opendocument.presentation",
	".ods":    "application/vnd.oasis.opendocument.spreadsheet",
	".odt":    "application/vnd.oasis.opendocument.text",
	".oga":    "audio/ogg",
	".ogv":    "video/ogg",
	".ogx":    "application/ogg",
	".opus":   "audio/opus",
	".otf":    "font/otf",
	".png":    "image/png",
	".pdf":    "application/pdf",
	".php":    "application/x-httpd-php",
	".ppt":    "application/vnd.ms-powerpoint",
	".pptx":   "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".rar":    "application/vnd.rar",
	".rtf":    "application/rtf",
	".sh":     "application/x-sh",
	".svg":    "image/svg+xml",
	".swf":    "application/x-shockwave-flash",
	".tar":    "application/x-tar",
	".tif":    "image/tiff",
	".tiff":   "image/tiff",
	".ts":     "video/mp2t",
	".ttf":    "font/ttf",
	".txt":    "text/plain",
	".vsd":    "application/vnd.visio",
	".wav":    "audio/wav",
	".weba":   "audio/webm",
	".webm":   "video/webm",
	".webp":   "image/webp",
	".woff":   "font/woff",
	".woff2":  "font/woff2",
	".xhtml":  "application/xhtml+xml",
	".xls":    "application/vnd.ms-excel",
	".xlsx":   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xul":    "application/vnd.mozilla.xul+xml",
	".zip":    "application/zip",
	".7z":     "application/x-7z-compressed",
}

// textTypes carry a charset parameter when served.
var textTypes = map[string]bool{
	"text/xml":                        true,
	"application/xml":                 true,
	"text/css":                        true,
	"text/csv":                        true,
	"text/html":                       true,
	"text/calendar":                   true,
	"application/json":                true,
	"application/ld+json":             true,
	"text/javascript":                 true,
	"application/x-httpd-php":         true,
	"application/x-sh":                true,
	"image/svg+xml":                   true,
	"text/plain":                      true,
	"application/xhtml+xml":           true,
	"application/vnd.mozilla.xul+xml": true,
}

// TypeByExtension returns the media type for a file extension such as
// ".png" (case-insensitive), or "" when it is unknown.
func TypeByExtension(ext string) string {
	return TypeByExtensionVariant(ext, "")
}

// TypeByExtensionVariant is TypeByExtension for extensions whose type
// depends on a variant, such as ".3gp" with VariantAudioOnly. Unknown
// variants fall back to the default type.
func TypeByExtensionVariant(ext, variant string) string {
	ext = strings.ToLower(ext)
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if vs, ok := variantTypes[ext]; ok {
		if t, ok := vs[variant]; ok {
			return t
		}
		return vs[""]
	}
	return ""
}

// ContentTypeValue renders a media type as a header value, adding a charset
// parameter to text-like types.
func ContentTypeValue(mediaType, cs string) string {
	if textTypes[mediaType] && cs != "" {
		return mediaType + "; charset=" + cs
	}
	return mediaType
}

// MIMEType returns the part's media type without parameters. It comes from
// the Content-Type header when present, then from the filename extension,
// then from the content of file bodies; plain fields default to text/plain.
func (p *Part) MIMEType() string {
	if ct := p.ContentType(); ct != nil {
		return ct.Essence()
	}
	if name := p.Filename(); name != "" {
		if t := TypeByExtension(filepath.Ext(name)); t != "" {
			return t
		}
	}
	if !p.IsFile() {
		return "text/plain"
	}
	return p.sniff()
}

func (p *Part) sniff() string {
	var m *mimetype.MIME
	if path := p.Path(); path != "" {
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			return "application/octet-stream"
		}
		m = detected
	} else {
		m = mimetype.Detect(p.Bytes())
	}
	essence, _, _ := strings.Cut(m.String(), ";")
	return essence
}
