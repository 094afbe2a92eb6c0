package ports

import (
	"context"
	"io"

	"tabprep/domain/table"
)

// DatasetReader decodes one external tabular format into a Dataset.
// Implementations guarantee uniform column naming and represent missing
// cells as null, so the engine never sees format-specific gaps.
type DatasetReader interface {
	Read(ctx context.Context, src io.Reader) (table.Dataset, error)
}

// DatasetWriter encodes a Dataset back into an external format.
type DatasetWriter interface {
	Write(ctx context.Context, dst io.Writer, ds table.Dataset) error
}
