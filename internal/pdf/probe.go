package pdf

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ProbeError reports an unreadable or corrupt input to the searchability
// probe.
type ProbeError struct {
	Cause error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("searchability probe: %v", e.Cause)
}

func (e *ProbeError) Unwrap() error { return e.Cause }

// IsSearchable reports whether the document already contains an extractable
// text layer on at least one page, without building a document model. The
// only side effect is read-only file access; the probe stops at the first
// searchable page.
func IsSearchable(path string) (bool, error) {
	if err := ValidatePath(path); err != nil {
		return false, &ProbeError{Cause: err}
	}

	doc, err := fitz.New(path)
	if err != nil {
		return false, &ProbeError{Cause: err}
	}
	defer doc.Close()

	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return false, &ProbeError{Cause: fmt.Errorf("page %d: %w", n, err)}
		}
		if strings.TrimSpace(text) != "" {
			return true, nil
		}
	}
	return false, nil
}
