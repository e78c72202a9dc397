// Package utils provides helpers for handling uploaded files.
//
// Functions:
//   - SanitizeFilename: Returns a safe filename for storage.
//   - GenerateUUID: Returns a new UUID string.
//   - SniffHeader: Reads the first bytes of an upload and rewinds it.
//   - IsPDF, IsSpreadsheet: Check an upload's magic bytes against its kind.
//
// Used throughout the backend for safe file handling and unique IDs.
package utils

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

var (
	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	safe := unsafeChars.ReplaceAllString(base, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

func GenerateUUID() string {
	return uuid.New().String()
}

// SniffHeader reads up to n bytes from the start of f and seeks back to the
// beginning.
func SniffHeader(f io.ReadSeeker, n int) ([]byte, error) {
	header := make([]byte, n)
	read, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return header[:read], nil
}

func IsPDF(header []byte) bool {
	return bytes.HasPrefix(header, pdfMagic)
}

// IsSpreadsheet reports whether header fits the workbook format implied by
// filename: a zip container for .xlsx, an OLE2 compound file for .xls.
func IsSpreadsheet(filename string, header []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return bytes.HasPrefix(header, zipMagic)
	case ".xls":
		return bytes.HasPrefix(header, ole2Magic)
	}
	return false
}
