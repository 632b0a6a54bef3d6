// Package presenters reshapes stored documents into the flattened responses served by the API.
// Every function here is a pure projection of its arguments.
package presenters

import (
	"strings"
	"time"

	"invoicehub-backend/models"
)

const DateLayout = "02, Jan 2006"

// Options carries what image URLs are resolved against.
type Options struct {
	BaseURL     string
	Placeholder string
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// ImageURL resolves a stored upload path to an absolute URL. Empty paths fall back to the
// placeholder; absolute URLs pass through.
func ImageURL(base, path, placeholder string) string {
	if path == "" {
		path = placeholder
	}
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/uploads/" + path
}

func (o Options) Image(path string) string {
	return ImageURL(o.BaseURL, path, o.Placeholder)
}

type SignatureView struct {
	SignType       string `json:"sign_type"`
	SignatureID    string `json:"signatureId,omitempty"`
	SignatureName  string `json:"signatureName,omitempty"`
	SignatureImage string `json:"signatureImage,omitempty"`
}

// SignatureBlock renders the signature of a document according to its sign type. A digital
// signature uses the stored record, an e-signature the name and image saved on the document.
func SignatureBlock(info models.SignInfo, stored *models.Signature, o Options) SignatureView {
	switch info.SignType {
	case models.SignTypeDigital:
		view := SignatureView{SignType: models.SignTypeDigital}
		if info.SignatureID != nil {
			view.SignatureID = info.SignatureID.String()
		}
		if stored != nil {
			view.SignatureName = stored.SignatureName
			view.SignatureImage = o.Image(stored.SignatureImage)
		}
		return view
	case models.SignTypeE:
		return SignatureView{
			SignType:       models.SignTypeE,
			SignatureName:  info.SignatureName,
			SignatureImage: o.Image(info.SignatureImage),
		}
	default:
		return SignatureView{SignType: models.SignTypeNone}
	}
}
