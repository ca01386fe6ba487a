package extraction

import (
	"bytes"
	"errors"
)

// ErrNotPDF is returned when the upload does not carry a PDF header.
var ErrNotPDF = errors.New("file is not a PDF")

var (
	pdfHeader  = []byte("%PDF-")
	pageMarker = []byte("/Type")
)

// CountPages scans the raw document for page objects. PDFs mark each page
// with "/Type /Page"; the page-tree node uses "/Type /Pages", which must not
// be counted. The scan tolerates both spaced and unspaced forms.
func CountPages(data []byte) (int, error) {
	if !bytes.HasPrefix(data, pdfHeader) {
		return 0, ErrNotPDF
	}
	count := 0
	rest := data
	for {
		i := bytes.Index(rest, pageMarker)
		if i < 0 {
			break
		}
		rest = rest[i+len(pageMarker):]
		j := 0
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\r' || rest[j] == '\n' || rest[j] == '\t') {
			j++
		}
		if !bytes.HasPrefix(rest[j:], []byte("/Page")) {
			continue
		}
		tail := rest[j+len("/Page"):]
		// "/Pages" is the tree node, "/PageLabels" is a different key.
		if len(tail) > 0 && isNameChar(tail[0]) {
			continue
		}
		count++
	}
	return count, nil
}

func isNameChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
