package infer

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Sampler deterministically selects a fraction of records, by hashing their text
type Sampler struct {
	threshold uint64
	all       bool
}

// NewSampler creates a Sampler which selects approximately ratio of all records.
// A ratio outside (0, 1) selects every record.
func NewSampler(ratio float64) *Sampler {
	if ratio <= 0 || ratio >= 1 {
		return &Sampler{all: true}
	}
	return &Sampler{threshold: uint64(ratio * math.MaxUint64)}
}

// Sample returns true iff the record should be used for inference
func (s *Sampler) Sample(record string) bool {
	if s == nil || s.all {
		return true
	}
	return xxhash.Sum64String(record) <= s.threshold
}
