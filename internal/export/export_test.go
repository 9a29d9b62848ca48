package export

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	t.Parallel()

	base := New("data/images", "3-4-Time", "1-13", "png")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"no thickness", base.FullPath(), filepath.Join("data", "images", "3-4-Time", "1-13.png")},
		{"thickness", base.WithStrokeThickness(3).FullPath(), filepath.Join("data", "images", "3-4-Time", "1-13_3.png")},
		{"offset", base.WithStrokeThickness(3).FullPathWithOffset(33), filepath.Join("data", "images", "3-4-Time", "1-13_3_offset_33.png")},
		{"class and file", base.WithStrokeThickness(3).ClassAndFile(), "3-4-Time/1-13_3.png"},
		{"class and file offset", base.WithStrokeThickness(3).ClassAndFileWithOffset(33), "3-4-Time/1-13_3_offset_33.png"},
		{"empty class", New("", "", "bitmap_random", "png").WithStrokeThickness(2).ClassAndFile(), "bitmap_random_2.png"},
		{"default extension", New("out", "c", "b", "").FullPath(), filepath.Join("out", "c", "b.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestWithStrokeThicknessCopies(t *testing.T) {
	t.Parallel()

	p := New("d", "c", "b", "png")
	_ = p.WithStrokeThickness(5)
	if got := p.ClassAndFile(); got != "c/b.png" {
		t.Errorf("WithStrokeThickness modified the receiver: %q", got)
	}
}
