// Command namestamp stamps a list of names onto copies of a PDF worksheet.
//
// Usage:
//
//	namestamp --pdf worksheet.pdf --names class.xlsx --x 50 --y 100 --rotate 90
//
// The first sheet of the workbook holds one group per column: a label in the
// first row followed by names. --x and --y give the top-left corner of the
// name box on the page as displayed after --rotate degrees of clockwise
// rotation.
package main

import (
	"fmt"
	"log"
	"os"

	"go-namestamp/internal/pdf"
	"go-namestamp/internal/session"
	"go-namestamp/internal/sheet"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

type options struct {
	pdfPath   string
	namesPath string
	outPath   string
	x, y      float64
	width     float64
	height    float64
	rotate    int
	noTitles  bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	flags := pflag.NewFlagSet("namestamp", pflag.ContinueOnError)
	flags.StringVar(&opts.pdfPath, "pdf", "", "PDF worksheet whose first page is copied for every name")
	flags.StringVar(&opts.namesPath, "names", "", "Workbook (.xlsx or .xls) with one group per column")
	flags.StringVarP(&opts.outPath, "out", "o", "personalized-names.pdf", "Output file")
	flags.Float64Var(&opts.x, "x", session.DefaultPlacement.X, "Left edge of the name box on the displayed page")
	flags.Float64Var(&opts.y, "y", session.DefaultPlacement.Y, "Top edge of the name box on the displayed page")
	flags.Float64Var(&opts.width, "width", session.DefaultPlaceholder.Width, "Width of the name box")
	flags.Float64Var(&opts.height, "height", session.DefaultPlaceholder.Height, "Height of the name box")
	flags.IntVar(&opts.rotate, "rotate", 0, "Clockwise display rotation in degrees (0, 90, 180 or 270)")
	flags.BoolVar(&opts.noTitles, "no-titles", false, "Do not insert a title page before each group")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: namestamp --pdf FILE --names FILE [options]\n\nOptions:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if opts.pdfPath == "" || opts.namesPath == "" {
		flags.Usage()
		return nil, errors.New("--pdf and --names are required")
	}
	return opts, nil
}

func run(opts *options) error {
	source, err := os.ReadFile(opts.pdfPath)
	if err != nil {
		return errors.Wrap(err, "read template")
	}
	info, err := pdf.Inspect(source)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.namesPath)
	if err != nil {
		return errors.Wrap(err, "open names")
	}
	defer f.Close()
	groups, err := sheet.ReadGroups(f, opts.namesPath)
	if err != nil {
		return err
	}

	gen := pdf.NewGenerator(!opts.noTitles)
	res, err := gen.Generate(pdf.Job{
		Source:      source,
		Groups:      groups,
		Placement:   pdf.Point{X: opts.x, Y: opts.y},
		Placeholder: pdf.Size{Width: opts.width, Height: opts.height},
		Rotation:    pdf.EffectiveRotation(opts.rotate, info.Rotation),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.outPath, res.PDF, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	log.Printf("Wrote %d pages to %s", res.PageCount, opts.outPath)
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}
