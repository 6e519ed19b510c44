package cv

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a structurally valid PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestStore_SaveUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewStore("cv.pdf", dir)

	path, err := s.SaveUpload(42, []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "user_cv_42.pdf"), path)

	// same user, same file
	path2, err := s.SaveUpload(42, []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	assert.NotEqual(t, s.UploadPath(42), s.UploadPath(43))
}

func TestStore_Predefined(t *testing.T) {
	s := NewStore("assets/cv.pdf", t.TempDir())
	assert.Equal(t, "assets/cv.pdf", s.Predefined())
	s.CheckPredefined()
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(minimalPDF(2))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = PageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestPageCount_MalformedPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"header then blank lines", []byte("%PDF-1.4\n" + strings.Repeat("\n", 200))},
		{"negative startxref", []byte("%PDF-1.4\n" + strings.Repeat("x", 4096) + "\nstartxref\n-5\n%%EOF\n")},
		{"startxref past end", []byte("%PDF-1.4\nstartxref\n99999999\n%%EOF\n")},
		{"truncated", minimalPDF(1)[:40]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = PageCount(tt.data)
			})
			assert.ErrorContains(t, err, "failed to read pdf")
		})
	}
}
