package prep

import (
	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// Preprocessor runs the operator pipeline in its fixed order.
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Apply transforms the dataset according to the options: (1) infinite
// sanitization, (2) missing-value handling, (3) categorical encoding,
// (4) normalization. The order never changes.
//
// Column-type lists come from the analysis snapshot the caller captured
// before the pipeline began, so encoding targets the columns that were
// categorical then, and normalization the columns that were numeric
// then; columns created by encoding are not normalized. The pipeline
// does not re-analyze between steps, and the caller is expected to run
// a fresh analysis on the returned dataset.
func (p *Preprocessor) Apply(ds table.Dataset, snapshot *profile.AnalysisResult, opts Options) (table.Dataset, error) {
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return table.Dataset{}, err
	}

	var numericCols, categoricalCols []string
	if snapshot != nil {
		numericCols = snapshot.NumericColumns
		categoricalCols = snapshot.CategoricalColumns
	}

	out := ds
	if opts.HandleInfinite {
		out = SanitizeInfinite(out)
	}

	switch opts.MissingValueMethod {
	case MissingDropRows:
		out = DropMissingRows(out)
	case MissingDropColumns:
		out = DropMissingColumns(out)
	case MissingFillMean:
		out = FillMean(out, numericCols)
	case MissingFillMedian:
		out = FillMedian(out, numericCols)
	case MissingFillMode:
		out = FillMode(out)
	case MissingFillZero:
		out = FillZero(out)
	}

	switch opts.EncodingMethod {
	case EncodingLabel:
		out = LabelEncode(out, categoricalCols)
	case EncodingOneHot:
		out = OneHotEncode(out, categoricalCols)
	}

	switch opts.NormalizationMethod {
	case NormalizationMinMax:
		out = NormalizeMinMax(out, numericCols)
	case NormalizationStandard:
		out = NormalizeStandard(out, numericCols)
	}

	return out, nil
}
