package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectPhotoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"share link with view suffix", "https://drive.google.com/file/d/ABC123/view?usp=sharing", "https://drive.google.com/uc?export=view&id=ABC123"},
		{"share link with dashes and underscores", "https://drive.google.com/file/d/1a-B_c/view", "https://drive.google.com/uc?export=view&id=1a-B_c"},
		{"share link without suffix", "https://drive.google.com/file/d/XYZ", "https://drive.google.com/uc?export=view&id=XYZ"},
		{"plain image url", "https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"already direct", "https://drive.google.com/uc?export=view&id=ABC123", "https://drive.google.com/uc?export=view&id=ABC123"},
		{"other host with same path", "https://example.com/file/d/ABC123/view", "https://example.com/file/d/ABC123/view"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DirectPhotoURL(tt.input))
		})
	}
}
