package convert

import (
	"github.com/ytget/file-converter/internal/format"
)

// Route selects the backend for a source/target pair
type Route int

const (
	RouteNoop Route = iota
	RouteUnsupported
	RouteImageEncode
	RouteImageToPDF
	RouteTextToPDF
	RouteTextToDocx
	RouteDocxToPDF
	RouteDocxToText
)

var routeNames = map[Route]string{
	RouteNoop:        "noop",
	RouteUnsupported: "unsupported",
	RouteImageEncode: "image-encode",
	RouteImageToPDF:  "image-to-pdf",
	RouteTextToPDF:   "text-to-pdf",
	RouteTextToDocx:  "text-to-docx",
	RouteDocxToPDF:   "docx-to-pdf",
	RouteDocxToText:  "docx-to-text",
}

func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsNoop reports whether the route produces no artifact
func (r Route) IsNoop() bool {
	return r == RouteNoop || r == RouteUnsupported
}

// Plan picks the route for converting a file with extension source into target
func Plan(source, target string) Route {
	source = format.Normalize(source)
	target = format.Normalize(target)

	if target == "" || source == "" {
		return RouteUnsupported
	}
	if format.SameFormat(source, target) {
		return RouteNoop
	}

	switch format.Classify(source) {
	case format.FamilyImage:
		if source == format.ExtPDF || format.Classify(target) != format.FamilyImage {
			return RouteUnsupported
		}
		switch target {
		case format.ExtPDF:
			return RouteImageToPDF
		case format.ExtHEIC:
			return RouteUnsupported
		default:
			return RouteImageEncode
		}
	case format.FamilyText:
		switch {
		case source == format.ExtTXT && target == format.ExtPDF:
			return RouteTextToPDF
		case source == format.ExtTXT && target == format.ExtDOCX:
			return RouteTextToDocx
		case source == format.ExtDOCX && target == format.ExtPDF:
			return RouteDocxToPDF
		case source == format.ExtDOCX && target == format.ExtTXT:
			return RouteDocxToText
		}
	}
	return RouteUnsupported
}
