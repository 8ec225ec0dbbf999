package common

import "strings"

// AssetKind distinguishes the resource class of an external asset. The asset
// store needs it on delete because video and image resources live apart.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

func (k AssetKind) String() string {
	return string(k)
}

func (k AssetKind) IsValid() bool {
	return k == AssetKindImage || k == AssetKindVideo
}

// DetectAssetKind maps a MIME type to an asset kind, defaulting to image.
func DetectAssetKind(mimeType string) AssetKind {
	lower := strings.ToLower(mimeType)
	if strings.HasPrefix(lower, "video/") {
		return AssetKindVideo
	}
	return AssetKindImage
}
