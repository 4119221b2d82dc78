package attachments

const genericIcon = "fa-file-o"

// icons maps exact MIME types to Font Awesome file icons
var icons = map[string]string{
	"application/vnd.ms-excel":     "fa-file-excel-o",
	"text/plain":                   "fa-file-text-o",
	"image/gif":                    "fa-file-image-o",
	"image/png":                    "fa-file-image-o",
	"application/pdf":              "fa-file-pdf-o",
	"application/x-zip-compressed": "fa-file-archive-o",
	"application/x-gzip":           "fa-file-archive-o",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "fa-file-powerpoint-o",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "fa-file-word-o",
	"application/octet-stream": genericIcon,
	"application/x-msdownload": genericIcon,
}

// Icon returns the icon class for a MIME type. Lookup is exact; anything not
// in the table gets the generic file icon.
func Icon(mimeType string) string {
	if icon, ok := icons[mimeType]; ok {
		return icon
	}
	return genericIcon
}
