// Package pdf builds name-stamped worksheets from a PDF template.
//
// Functions:
//   - Generator.Generate: duplicates page 1 of a template once per name and
//     stamps the name at a position picked on a rotated preview.
//     Inputs: template bytes, name groups, placement, placeholder size, rotation.
//     Output: the merged PDF.
//   - Inspect: reads the page-1 geometry and intrinsic rotation of a template.
//   - MapPlacement: converts a preview pick into page user space.
//
// These functions are used by the API handlers and the namestamp command.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	DefaultTitleFontSize = 24
	DefaultNameFontSize  = 20
)

// Job is one generation request.
type Job struct {
	Source []byte
	// Groups are transposed spreadsheet columns: a label followed by names.
	Groups      [][]string
	Placement   Point
	Placeholder Size
	// Rotation is the effective rotation: chosen plus intrinsic, mod 360.
	Rotation int
}

// Result is a generated document.
type Result struct {
	PDF       []byte
	PageCount int
	// Warnings holds the non-fatal problems met on the way, such as
	// *MissingOverlayError and *UnhandledRotationError.
	Warnings []error
}

type Generator struct {
	conf          *model.Configuration
	TitlePages    bool
	TitleFontSize int
	NameFontSize  int
}

func NewGenerator(titlePages bool) *Generator {
	return &Generator{
		conf:          newConfiguration(),
		TitlePages:    titlePages,
		TitleFontSize: DefaultTitleFontSize,
		NameFontSize:  DefaultNameFontSize,
	}
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Generate emits, per group, an optional title page followed by one copy of
// the template's first page per name. Pages are produced sequentially so the
// output order follows the group and name order.
func (g *Generator) Generate(job Job) (*Result, error) {
	src, err := readContext(job.Source, g.conf)
	if err != nil {
		return nil, err
	}
	_, _, inh, err := src.PageDict(1, false)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("page 1: %w", err)}
	}
	box, err := mediaBox(inh)
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	res := &Result{}
	rotation := NormalizeRotation(job.Rotation)
	at, err := MapPlacement(job.Placement, box.Width(), box.Height(), rotation)
	if err != nil {
		log.Printf("warning: %v, using placement as given", err)
		res.Warnings = append(res.Warnings, err)
	} else {
		at.X += box.LLX
		at.Y += box.LLY
	}
	checkText := func(s string) {
		if !encodable(s) {
			lossy := &UnencodableTextError{Text: s}
			log.Printf("warning: %v", lossy)
			res.Warnings = append(res.Warnings, lossy)
		}
	}

	var pages [][]byte
	for _, group := range job.Groups {
		if len(group) == 0 {
			continue
		}
		label, names := group[0], group[1:]

		if g.TitlePages {
			checkText(label)
			page, err := g.titlePage(src, label, rotation)
			if err != nil {
				return nil, fmt.Errorf("title page %q: %w", label, err)
			}
			pages = append(pages, page)
		}

		for _, name := range names {
			var stamp *Point
			if job.Placeholder.IsZero() {
				missing := &MissingOverlayError{Name: name}
				log.Printf("warning: %v", missing)
				res.Warnings = append(res.Warnings, missing)
			} else {
				checkText(name)
				stamp = &at
			}
			page, err := g.namePage(src, name, stamp, rotation)
			if err != nil {
				return nil, fmt.Errorf("page for %q: %w", name, err)
			}
			pages = append(pages, page)
		}
	}

	out, err := mergePages(pages, box, g.conf)
	if err != nil {
		return nil, err
	}
	res.PDF = out
	res.PageCount = len(pages)
	return res, nil
}

// namePage duplicates the template page and, when stamp is set, draws name
// there.
func (g *Generator) namePage(src *model.Context, name string, stamp *Point, rotation int) ([]byte, error) {
	ctx, pageDict, inh, err := templatePage(src)
	if err != nil {
		return nil, err
	}
	setRotation(pageDict, rotation)

	if stamp == nil {
		return writeContext(ctx)
	}

	ref, err := newFont(ctx, nameFont)
	if err != nil {
		return nil, err
	}
	key, err := attachFont(ctx, pageDict, inh.Resources, *ref)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writeText(&buf, key, g.NameFontSize, *stamp, rotation, name)
	if err := appendContents(ctx, pageDict, buf.Bytes()); err != nil {
		return nil, err
	}
	return writeContext(ctx)
}

// titlePage produces a page with the template's geometry but none of its
// content, showing label in the middle.
func (g *Generator) titlePage(src *model.Context, label string, rotation int) ([]byte, error) {
	ctx, pageDict, inh, err := templatePage(src)
	if err != nil {
		return nil, err
	}
	box, err := mediaBox(inh)
	if err != nil {
		return nil, err
	}
	pageDict.Delete("Annots")
	pageDict.Delete("Thumb")
	setRotation(pageDict, rotation)

	ref, err := newFont(ctx, titleFont)
	if err != nil {
		return nil, err
	}
	const key = "NSF"
	pageDict["Resources"] = types.Dict{"Font": types.Dict{key: *ref}}

	width := font.TextWidth(label, titleFont, g.TitleFontSize)
	origin := centeredOrigin(box, width, textHeight(g.TitleFontSize), rotation)

	var buf bytes.Buffer
	writeText(&buf, key, g.TitleFontSize, origin, rotation, label)
	if err := setContents(ctx, pageDict, buf.Bytes()); err != nil {
		return nil, err
	}
	return writeContext(ctx)
}

// templatePage copies page 1 of src into a context of its own.
func templatePage(src *model.Context) (*model.Context, types.Dict, *model.InheritedPageAttrs, error) {
	ctx, err := pdfcpu.ExtractPages(src, []int{1}, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("extract page 1: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, nil, nil, err
	}
	pageDict, _, inh, err := ctx.PageDict(1, false)
	if err != nil {
		return nil, nil, nil, err
	}
	if pageDict == nil {
		return nil, nil, nil, errors.New("extract page 1: no page dictionary")
	}
	return ctx, pageDict, inh, nil
}

// setRotation writes /Rotate. PDF only allows multiples of 90, anything else
// keeps the rotation the page already has.
func setRotation(pageDict types.Dict, rotation int) {
	if rotation%90 != 0 {
		return
	}
	pageDict["Rotate"] = types.Integer(rotation)
}

func mediaBox(inh *model.InheritedPageAttrs) (Rect, error) {
	if inh == nil || inh.MediaBox == nil {
		return Rect{}, errors.New("page 1 has no media box")
	}
	mb := inh.MediaBox
	return Rect{LLX: mb.LL.X, LLY: mb.LL.Y, URX: mb.UR.X, URY: mb.UR.Y}, nil
}

func readContext(src []byte, conf *model.Configuration) (*model.Context, error) {
	if len(src) == 0 {
		return nil, &LoadError{Err: errors.New("empty input")}
	}
	ctx, err := pdfapi.ReadContext(bytes.NewReader(src), conf)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return nil, &LoadError{Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &LoadError{Err: err}
	}
	if ctx.PageCount == 0 {
		return nil, &LoadError{Err: errors.New("document has no pages")}
	}
	return ctx, nil
}

func writeContext(ctx *model.Context) ([]byte, error) {
	var out bytes.Buffer
	if err := pdfapi.WriteContext(ctx, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// mergePages concatenates single page documents in order. Without pages the
// result is an empty document whose page tree carries the template size.
func mergePages(pages [][]byte, box Rect, conf *model.Configuration) ([]byte, error) {
	switch len(pages) {
	case 0:
		ctx, err := pdfcpu.CreateContextWithXRefTable(conf, &types.Dim{Width: box.Width(), Height: box.Height()})
		if err != nil {
			return nil, fmt.Errorf("create empty document: %w", err)
		}
		return writeContext(ctx)
	case 1:
		return pages[0], nil
	}

	readers := make([]io.ReadSeeker, len(pages))
	for i, data := range pages {
		readers[i] = bytes.NewReader(data)
	}
	var out bytes.Buffer
	if err := pdfapi.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, fmt.Errorf("merge pages: %w", err)
	}
	return out.Bytes(), nil
}
