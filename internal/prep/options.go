// Package prep implements the preprocessing operators: infinite-value
// sanitization, missing-value handling, categorical encoding and
// numeric normalization, plus the fixed-order pipeline that applies
// them. Every operator takes a dataset value and returns a new one; the
// input is never mutated.
package prep

import (
	"tabprep/domain/core"
)

type MissingMethod string

const (
	MissingNone        MissingMethod = "none"
	MissingDropRows    MissingMethod = "dropRows"
	MissingDropColumns MissingMethod = "dropColumns"
	MissingFillMean    MissingMethod = "fillMean"
	MissingFillMedian  MissingMethod = "fillMedian"
	MissingFillMode    MissingMethod = "fillMode"
	MissingFillZero    MissingMethod = "fillZero"
)

type EncodingMethod string

const (
	EncodingNone   EncodingMethod = "none"
	EncodingLabel  EncodingMethod = "label"
	EncodingOneHot EncodingMethod = "onehot"
)

type NormalizationMethod string

const (
	NormalizationNone     NormalizationMethod = "none"
	NormalizationMinMax   NormalizationMethod = "minmax"
	NormalizationStandard NormalizationMethod = "standard"
)

// Options selects which operators the pipeline runs. The zero value is
// a full no-op; an empty method string means "none".
type Options struct {
	HandleInfinite      bool                `json:"handleInfinite"`
	MissingValueMethod  MissingMethod       `json:"missingValueMethod"`
	EncodingMethod      EncodingMethod      `json:"encodingMethod"`
	NormalizationMethod NormalizationMethod `json:"normalizationMethod"`
}

// Normalized maps empty method strings to the explicit "none" value.
func (o Options) Normalized() Options {
	if o.MissingValueMethod == "" {
		o.MissingValueMethod = MissingNone
	}
	if o.EncodingMethod == "" {
		o.EncodingMethod = EncodingNone
	}
	if o.NormalizationMethod == "" {
		o.NormalizationMethod = NormalizationNone
	}
	return o
}

// Validate rejects unrecognized method names. Operators must fail fast
// on a bad method rather than silently skipping the step.
func (o Options) Validate() error {
	o = o.Normalized()
	switch o.MissingValueMethod {
	case MissingNone, MissingDropRows, MissingDropColumns,
		MissingFillMean, MissingFillMedian, MissingFillMode, MissingFillZero:
	default:
		return core.NewInvalidOptionError("missingValueMethod", string(o.MissingValueMethod))
	}
	switch o.EncodingMethod {
	case EncodingNone, EncodingLabel, EncodingOneHot:
	default:
		return core.NewInvalidOptionError("encodingMethod", string(o.EncodingMethod))
	}
	switch o.NormalizationMethod {
	case NormalizationNone, NormalizationMinMax, NormalizationStandard:
	default:
		return core.NewInvalidOptionError("normalizationMethod", string(o.NormalizationMethod))
	}
	return nil
}

// IsNoOp reports whether the options select no transformation at all.
func (o Options) IsNoOp() bool {
	o = o.Normalized()
	return !o.HandleInfinite &&
		o.MissingValueMethod == MissingNone &&
		o.EncodingMethod == EncodingNone &&
		o.NormalizationMethod == NormalizationNone
}
