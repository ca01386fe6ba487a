package extraction

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfWithPages(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	buf.WriteString("1 0 obj << /Type /Pages /Count ")
	buf.WriteByte(byte('0' + n%10))
	buf.WriteString(" >> endobj\n")
	for i := 0; i < n; i++ {
		buf.WriteString("<< /Type /Page /Parent 1 0 R >> endobj\n")
	}
	buf.WriteString("%%EOF")
	return buf.Bytes()
}

func TestCountPages(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		pages, err := CountPages(pdfWithPages(n))
		require.NoError(t, err)
		assert.Equal(t, n, pages)
	}
}

func TestCountPagesIgnoresPageTreeAndLabels(t *testing.T) {
	doc := []byte("%PDF-1.7\n<< /Type /Pages >>\n<< /Type /PageLabels >>\n<< /Type/Page >>\n")
	pages, err := CountPages(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestCountPagesRejectsNonPDF(t *testing.T) {
	_, err := CountPages([]byte("plain text"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestCountPagesZeroPages(t *testing.T) {
	pages, err := CountPages([]byte("%PDF-1.4\n%%EOF"))
	require.NoError(t, err)
	assert.Zero(t, pages)
}
