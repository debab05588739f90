package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		source   string
		target   string
		expected Route
	}{
		{".png", ".bmp", RouteImageEncode},
		{".heic", ".jpg", RouteImageEncode},
		{"JPEG", "png", RouteImageEncode},
		{".png", ".pdf", RouteImageToPDF},
		{".png", ".png", RouteNoop},
		{".jpg", ".jpeg", RouteNoop},
		{".png", ".heic", RouteUnsupported},
		{".png", ".txt", RouteUnsupported},
		{".png", ".docx", RouteUnsupported},
		{".pdf", ".png", RouteUnsupported},
		{".txt", ".pdf", RouteTextToPDF},
		{".txt", ".docx", RouteTextToDocx},
		{".docx", ".pdf", RouteDocxToPDF},
		{".docx", ".txt", RouteDocxToText},
		{".txt", ".txt", RouteNoop},
		{".txt", ".png", RouteUnsupported},
		{".csv", ".pdf", RouteUnsupported},
		{".csv", ".txt", RouteUnsupported},
		{".png", "", RouteUnsupported},
		{"", ".png", RouteUnsupported},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Plan(test.source, test.target), "%s -> %s", test.source, test.target)
	}
}

func TestRouteIsNoop(t *testing.T) {
	assert.True(t, RouteNoop.IsNoop())
	assert.True(t, RouteUnsupported.IsNoop())
	assert.False(t, RouteImageEncode.IsNoop())
	assert.Equal(t, "docx-to-pdf", RouteDocxToPDF.String())
	assert.Equal(t, "unknown", Route(99).String())
}
