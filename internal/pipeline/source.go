package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/controller-hub/certguard/internal/types"
)

// FieldSource supplies extracted certificate fields. Extraction itself (OCR,
// direct parse) is an external collaborator; the engine only consumes its
// output.
type FieldSource interface {
	Extract(ctx context.Context, ref string) (*types.CertificateFields, error)
}

// ExtractionError reports a failed or timed-out extraction. It is never
// propagated as a crash: the pipeline converts it into a human-review
// disposition.
type ExtractionError struct {
	Ref   string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Ref, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// JSONFieldSource reads pre-extracted certificate fields from JSON files.
type JSONFieldSource struct{}

// Extract reads and decodes one field file. The certificate ID defaults to
// the file basename when the extractor left it empty.
func (JSONFieldSource) Extract(ctx context.Context, ref string) (*types.CertificateFields, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractionError{Ref: ref, Cause: err}
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, &ExtractionError{Ref: ref, Cause: err}
	}

	var fields types.CertificateFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ExtractionError{Ref: ref, Cause: err}
	}

	if fields.CertificateID == "" {
		base := filepath.Base(ref)
		fields.CertificateID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &fields, nil
}
