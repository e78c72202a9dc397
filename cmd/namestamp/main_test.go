package main

import (
	"os"
	"path/filepath"
	"testing"

	"go-namestamp/internal/pdf"
	"go-namestamp/internal/pdf/pdftest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--pdf", "a.pdf", "--names", "n.xlsx", "--rotate", "90", "--x", "10", "--no-titles"})
	require.NoError(t, err)
	assert.Equal(t, 90, opts.rotate)
	assert.Equal(t, 10.0, opts.x)
	assert.Equal(t, 100.0, opts.y)
	assert.True(t, opts.noTitles)
	assert.Equal(t, "personalized-names.pdf", opts.outPath)

	_, err = parseFlags([]string{"--pdf", "a.pdf"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "worksheet.pdf")
	require.NoError(t, os.WriteFile(pdfPath, pdftest.Template(612, 792, 90), 0o644))

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Group A"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Ann"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Ben"}))
	namesPath := filepath.Join(dir, "class.xlsx")
	require.NoError(t, f.SaveAs(namesPath))
	require.NoError(t, f.Close())

	outPath := filepath.Join(dir, "out.pdf")
	require.NoError(t, run(&options{
		pdfPath:   pdfPath,
		namesPath: namesPath,
		outPath:   outPath,
		x:         50,
		y:         100,
		width:     50,
		height:    20,
		rotate:    90,
	}))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	rotations, err := pdf.PageRotations(out)
	require.NoError(t, err)
	// One title page and two names, all at the intrinsic 90 plus the chosen 90.
	assert.Equal(t, []int{180, 180, 180}, rotations)
}
