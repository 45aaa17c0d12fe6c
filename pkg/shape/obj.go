package shape

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/Faultbox/shapelab/pkg/math"
)

// DecodeOptions controls OBJ decoding.
type DecodeOptions struct {
	// FixIndex converts 1-based face indices (the OBJ convention) to 0-based.
	FixIndex bool

	// OnSkip is called for every line that could not be decoded. The line
	// is dropped and decoding continues.
	OnSkip func(*LineError)
}

// DefaultDecodeOptions returns options for standard 1-indexed OBJ files.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{FixIndex: true}
}

// ParseOBJ decodes OBJ text with the default options.
func ParseOBJ(text string) (*Shape, error) {
	return Decode(strings.NewReader(text), DefaultDecodeOptions())
}

// Decode reads OBJ-like text: "v x y z" lines become vertices and
// "f a b c ..." lines become faces. Tokens are separated by any run of
// whitespace or commas. Tags are case-insensitive and every other line
// (comments, normals, texture coordinates, groups) is ignored.
//
// Malformed v/f lines are reported through OnSkip and dropped. A skipped
// v line still takes its slot in the file's vertex numbering, so the
// vertices after it keep their indices. A face that refers to a skipped
// vertex, or to one the file never defines, fails the whole decode.
func Decode(r io.Reader, opts DecodeOptions) (*Shape, error) {
	s := &Shape{}
	var (
		faceLines []int
		// remap[i] is the position in s.V of the file's i-th vertex, or -1
		// when that v line was skipped.
		remap []int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		tokens := tokenize(text)
		if len(tokens) == 0 {
			continue
		}

		var err error
		switch strings.ToLower(tokens[0]) {
		case "v":
			var v math.Vec3
			v, err = parseVertex(tokens[1:])
			if err == nil {
				remap = append(remap, len(s.V))
				s.V = append(s.V, v)
			} else {
				remap = append(remap, -1)
			}
		case "f":
			var f Face
			f, err = parseFace(tokens[1:], len(remap), opts.FixIndex)
			if errors.Is(err, ErrIndexOutOfRange) {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err == nil {
				s.F = append(s.F, f)
				faceLines = append(faceLines, lineNo)
			}
		default:
			continue
		}

		if err != nil && opts.OnSkip != nil {
			opts.OnSkip(&LineError{Line: lineNo, Text: text, Err: err})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	for fi, f := range s.F {
		for i, idx := range f {
			if idx >= len(remap) {
				return nil, fmt.Errorf("line %d: %w: %d (have %d vertices)", faceLines[fi], ErrIndexOutOfRange, idx, len(remap))
			}
			if remap[idx] < 0 {
				return nil, fmt.Errorf("line %d: %w: %d refers to a skipped vertex", faceLines[fi], ErrIndexOutOfRange, idx)
			}
			f[i] = remap[idx]
		}
	}
	return s, nil
}

func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// parseVertex accepts "x y z" with an optional trailing w, which is ignored.
func parseVertex(tokens []string) (math.Vec3, error) {
	if len(tokens) != 3 && len(tokens) != 4 {
		return math.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrMalformedLine, len(tokens))
	}
	var c [3]float32
	for i := 0; i < 3; i++ {
		x, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: coordinate %q", ErrMalformedLine, tokens[i])
		}
		c[i] = float32(x)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseFace reads vertex indices. Tokens of the form "v/vt/vn" use the
// vertex part. With fixIndex, negative indices count back from the most
// recent vertex as in standard OBJ.
func parseFace(tokens []string, nVerts int, fixIndex bool) (Face, error) {
	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: face needs 3 indices, got %d", ErrMalformedLine, len(tokens))
	}
	f := make(Face, len(tokens))
	for i, tok := range tokens {
		vertPart, _, _ := strings.Cut(tok, "/")
		idx, err := strconv.Atoi(vertPart)
		if err != nil {
			return nil, fmt.Errorf("%w: index %q", ErrMalformedLine, tok)
		}
		switch {
		case fixIndex && idx > 0:
			idx--
		case fixIndex && idx < 0:
			idx += nVerts
		case fixIndex && idx == 0:
			return nil, fmt.Errorf("%w: index 0 in a 1-indexed face", ErrMalformedLine)
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrIndexOutOfRange, tok)
		}
		f[i] = idx
	}
	return f, nil
}

// WriteOBJ writes s as 1-indexed OBJ text. Colors are not part of the format
// and are dropped.
func (s *Shape) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", s.Info())
	for _, v := range s.V {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
	}
	for _, f := range s.F {
		bw.WriteString("f")
		for _, idx := range f {
			fmt.Fprintf(bw, " %d", idx+1)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// OBJ returns s encoded as OBJ text.
func (s *Shape) OBJ() string {
	var b strings.Builder
	_ = s.WriteOBJ(&b)
	return b.String()
}

func formatFloat(x float32) string {
	return strconv.FormatFloat(float64(x), 'g', -1, 32)
}
