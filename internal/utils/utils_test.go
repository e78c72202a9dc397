package utils

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "class_list_2024.xlsx", SanitizeFilename("class list 2024.xlsx"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("a"), 300))+".pdf"), 100)
}

func TestSniffHeaderRewinds(t *testing.T) {
	r := bytes.NewReader([]byte("%PDF-1.7 rest of file"))
	header, err := SniffHeader(r, 5)
	require.NoError(t, err)
	assert.True(t, IsPDF(header))

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 rest of file", string(all))

	short, err := SniffHeader(bytes.NewReader([]byte("%P")), 5)
	require.NoError(t, err)
	assert.False(t, IsPDF(short))
}

func TestIsSpreadsheet(t *testing.T) {
	zip := []byte("PK\x03\x04rest")
	ole := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}

	assert.True(t, IsSpreadsheet("names.xlsx", zip))
	assert.True(t, IsSpreadsheet("NAMES.XLS", ole))
	assert.False(t, IsSpreadsheet("names.xlsx", ole))
	assert.False(t, IsSpreadsheet("names.xls", zip))
	assert.False(t, IsSpreadsheet("names.csv", zip))
}

func TestGenerateUUID(t *testing.T) {
	assert.NotEqual(t, GenerateUUID(), GenerateUUID())
	assert.Len(t, GenerateUUID(), 36)
}
