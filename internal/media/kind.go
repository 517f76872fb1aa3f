// Package media indexes the workspace media folders by the part number
// embedded in each file name.
package media

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three media folders. It doubles as the display
// mode that drives highlighting, filtering and the default open action.
type Kind string

const (
	KindImage   Kind = "image"
	Kind3DXML   Kind = "3dxml"
	KindFBX     Kind = "fbx"
	defaultKind      = KindImage
)

// Kinds lists every kind in folder order.
var Kinds = []Kind{KindImage, Kind3DXML, KindFBX}

var kindExtensions = map[Kind][]string{
	KindImage: {".png", ".jpg"},
	Kind3DXML: {".3dxml"},
	KindFBX:   {".fbx"},
}

// ParseKind parses a kind name case-insensitively. The empty string yields
// the default kind (image).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return defaultKind, nil
	case "image", "img":
		return KindImage, nil
	case "3dxml", "xml3d", "model3d":
		return Kind3DXML, nil
	case "fbx":
		return KindFBX, nil
	}
	return "", fmt.Errorf("unknown media kind %q (want image, 3dxml or fbx)", s)
}

// Extensions returns the lowercase extensions accepted for k.
func (k Kind) Extensions() []string {
	return append([]string(nil), kindExtensions[k]...)
}

// Label is the human-facing name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindImage:
		return "Image"
	case Kind3DXML:
		return "3DXML"
	case KindFBX:
		return "FBX"
	}
	return string(k)
}

func (k Kind) String() string { return string(k) }
