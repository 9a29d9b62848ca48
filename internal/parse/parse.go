// Package parse reads handwritten symbol records from the HOMUS and Capitan
// text formats.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"

	"github.com/phobologic/omrprep/internal/geometry"
	"github.com/phobologic/omrprep/internal/model"
)

// ErrMalformedRecord is returned when a record cannot be decoded. The whole
// record is rejected; no partial symbol is produced.
var ErrMalformedRecord = errors.New("malformed symbol record")

// Homus parses a HOMUS record: the class label on the first line followed by
// one line per stroke, each a sequence of "x,y;" integer points. A blank
// record yields a nil symbol and no error.
func Homus(content string) (*model.Symbol, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	lines := splitLines(content)
	sym := &model.Symbol{
		Content: content,
		Class:   strings.TrimSpace(lines[0]),
	}

	for n, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		stroke, err := points(line, parseInt)
		if err != nil {
			return nil, fmt.Errorf("%w: stroke %d: %w", ErrMalformedRecord, n+1, err)
		}
		sym.Strokes = append(sym.Strokes, stroke)
	}

	dims, ok := geometry.Bounds(sym.Points())
	if !ok {
		return nil, fmt.Errorf("%w: symbol %q has no points", ErrMalformedRecord, sym.Class)
	}
	sym.Dimensions = dims
	return sym, nil
}

// Capitan parses one line of the Capitan data file:
// "label:x,y;x,y;...:p0,p1,...,p899" with fractional stroke coordinates and
// a row-major 30x30 grayscale bitmap. A blank line yields a nil symbol.
func Capitan(line string) (*model.CapitanSymbol, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	parts := strings.Split(line, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: want 3 colon-separated fields, got %d", ErrMalformedRecord, len(parts))
	}

	stroke, err := points(parts[1], parseFloat)
	if err != nil {
		return nil, fmt.Errorf("%w: stroke: %w", ErrMalformedRecord, err)
	}

	pixels, err := pixelData(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: image: %w", ErrMalformedRecord, err)
	}

	dims, ok := geometry.Bounds(stroke)
	if !ok {
		return nil, fmt.Errorf("%w: symbol %q has no points", ErrMalformedRecord, parts[0])
	}

	return &model.CapitanSymbol{
		Content:    line,
		Class:      parts[0],
		Stroke:     stroke,
		Pixels:     pixels,
		Dimensions: dims,
	}, nil
}

func points(s string, num func(string) (float64, error)) ([]vec.Vec2, error) {
	var pts []vec.Vec2
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue // trailing ';'
		}
		xs, ys, ok := strings.Cut(tok, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: missing comma", tok)
		}
		x, err := num(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", tok, err)
		}
		y, err := num(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", tok, err)
		}
		pts = append(pts, vec.Vec2{X: x, Y: y})
	}
	return pts, nil
}

func parseInt(s string) (float64, error) {
	n, err := strconv.Atoi(s)
	return float64(n), err
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func pixelData(s string) ([]uint8, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	want := model.CapitanImageSize * model.CapitanImageSize
	if len(fields) != want {
		return nil, fmt.Errorf("got %d pixel values, want %d", len(fields), want)
	}
	pixels := make([]uint8, want)
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("pixel %d: %w", i, err)
		}
		pixels[i] = uint8(v)
	}
	return pixels, nil
}

// splitLines splits on newlines, accepting CRLF, and drops the empty
// element after a trailing newline.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
