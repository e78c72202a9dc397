package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

const (
	nameFont  = "Helvetica-Bold"
	titleFont = "Helvetica"

	// Helvetica ascender and descender in glyph space units.
	helveticaAscent  = 718
	helveticaDescent = -207
)

// textHeight is the height of a Helvetica line including the descender.
func textHeight(fontSize int) float64 {
	return float64(helveticaAscent-helveticaDescent) / 1000 * float64(fontSize)
}

// pdfString renders s as the body of a PDF literal string in WinAnsi encoding.
// Runes outside the code page become '?'.
func pdfString(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// encodable reports whether every rune of s has a WinAnsi code.
func encodable(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// writeText appends a black text object drawing s at origin, turned by deg.
func writeText(buf *bytes.Buffer, fontKey string, fontSize int, origin Point, deg int, s string) {
	a, b, c, d := rotationMatrix(deg)
	fmt.Fprintf(buf, "BT\n/%s %d Tf\n0 g\n%.4f %.4f %.4f %.4f %.4f %.4f Tm\n(%s) Tj\nET\n",
		fontKey, fontSize, a, b, c, d, origin.X, origin.Y, pdfString(s))
}

// newFont adds a standard 14 font dictionary to ctx.
func newFont(ctx *model.Context, baseFont string) (*types.IndirectRef, error) {
	d := types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(baseFont),
		"Encoding": types.Name("WinAnsiEncoding"),
	}
	return ctx.IndRefForNewObject(d)
}

// attachFont registers ref in the font resources of pageDict under a key not
// yet used there and returns that key.
func attachFont(ctx *model.Context, pageDict types.Dict, inherited types.Dict, ref types.IndirectRef) (string, error) {
	var res types.Dict
	if obj, found := pageDict.Find("Resources"); found {
		d, err := ctx.DereferenceDict(obj)
		if err != nil {
			return "", fmt.Errorf("page resources: %w", err)
		}
		res = d
	}
	if res == nil {
		res = inherited
	}
	if res == nil {
		res = types.Dict{}
	}

	fonts, err := ctx.DereferenceDict(res["Font"])
	if err != nil {
		return "", fmt.Errorf("font resources: %w", err)
	}
	if fonts == nil {
		fonts = types.Dict{}
	}

	key := "NSF"
	for i := 1; ; i++ {
		if _, taken := fonts[key]; !taken {
			break
		}
		key = fmt.Sprintf("NSF%d", i)
	}
	fonts[key] = ref
	res["Font"] = fonts
	pageDict["Resources"] = res
	return key, nil
}

// setContents replaces the content of pageDict with a single stream.
func setContents(ctx *model.Context, pageDict types.Dict, content []byte) error {
	ref, err := newContentStream(ctx, content)
	if err != nil {
		return err
	}
	pageDict["Contents"] = *ref
	return nil
}

// appendContents draws content on top of the existing page content. The
// existing streams are referenced as they are, bracketed by q and Q so their
// graphics state does not leak into content.
func appendContents(ctx *model.Context, pageDict types.Dict, content []byte) error {
	var existing types.Array
	switch obj := pageDict["Contents"].(type) {
	case nil:
		return setContents(ctx, pageDict, content)
	case types.IndirectRef:
		o, err := ctx.Dereference(obj)
		if err != nil {
			return fmt.Errorf("page contents: %w", err)
		}
		if arr, ok := o.(types.Array); ok {
			existing = arr
		} else {
			existing = types.Array{obj}
		}
	case types.Array:
		existing = obj
	default:
		return fmt.Errorf("page contents: unexpected %T", obj)
	}

	open, err := newContentStream(ctx, []byte("q\n"))
	if err != nil {
		return err
	}
	closing, err := newContentStream(ctx, append([]byte("\nQ\n"), content...))
	if err != nil {
		return err
	}
	contents := make(types.Array, 0, len(existing)+2)
	contents = append(contents, *open)
	contents = append(contents, existing...)
	contents = append(contents, *closing)
	pageDict["Contents"] = contents
	return nil
}

func newContentStream(ctx *model.Context, content []byte) (*types.IndirectRef, error) {
	sd, err := ctx.NewStreamDictForBuf(content)
	if err != nil {
		return nil, err
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return ctx.IndRefForNewObject(*sd)
}
