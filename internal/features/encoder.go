package features

import (
	"fmt"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
)

// MissingSentinel replaces missing categorical values before encoding, so
// "no category" is a concrete category with its own code.
const MissingSentinel = "Missing"

// UnseenCode is the code assigned to values absent from a fitted vocabulary.
// Code 0 is whichever value was inserted first at fit time; the behavior is
// arbitrary-but-stable by contract, not a most-frequent-class fallback.
const UnseenCode = 0

// Vocabulary maps categorical string values to stable integer codes assigned
// in first-occurrence order at fit time. Immutable once built.
type Vocabulary struct {
	classes []string
	index   map[string]int
}

// NewVocabulary builds a vocabulary from an ordered class list, as decoded
// from a persisted artifact. Class list order is code order.
func NewVocabulary(classes []string) *Vocabulary {
	v := &Vocabulary{
		classes: append([]string(nil), classes...),
		index:   make(map[string]int, len(classes)),
	}
	for i, c := range v.classes {
		v.index[c] = i
	}
	return v
}

// FitVocabulary assigns codes to the column's distinct values in
// first-occurrence order. Missing values are replaced by the sentinel first,
// so the sentinel receives a code like any other category.
func FitVocabulary(values []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	for _, raw := range values {
		val := fillMissing(raw)
		if _, ok := v.index[val]; !ok {
			v.index[val] = len(v.classes)
			v.classes = append(v.classes, val)
		}
	}
	return v
}

// Classes returns the ordered class list (code order).
func (v *Vocabulary) Classes() []string {
	return append([]string(nil), v.classes...)
}

// Len returns the number of known classes.
func (v *Vocabulary) Len() int {
	return len(v.classes)
}

// Encode returns the code for a value; ok is false for unseen values.
func (v *Vocabulary) Encode(value string) (int, bool) {
	code, ok := v.index[value]
	return code, ok
}

// Decode returns the value for a code.
func (v *Vocabulary) Decode(code int) (string, error) {
	if code < 0 || code >= len(v.classes) {
		return "", fmt.Errorf("Decode: code %d outside vocabulary of %d classes", code, len(v.classes))
	}
	return v.classes[code], nil
}

// Apply encodes a full column. Missing values go through the sentinel;
// unseen values get UnseenCode. Returns the codes and the unseen count so
// the caller can emit one batched warning.
func (v *Vocabulary) Apply(values []string) ([]float64, int) {
	out := make([]float64, len(values))
	unseen := 0
	for i, raw := range values {
		val := fillMissing(raw)
		code, ok := v.index[val]
		if !ok {
			code = UnseenCode
			unseen++
		}
		out[i] = float64(code)
	}
	return out, unseen
}

func fillMissing(raw string) string {
	if ledger.IsMissing(raw) {
		return MissingSentinel
	}
	return raw
}
