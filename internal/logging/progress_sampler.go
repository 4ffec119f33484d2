package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the bank changes or the completed fraction crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBank   string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 25%) or when the bank changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 25
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress for done of total entries in bank should
// be logged. A zero total never logs.
func (s *ProgressSampler) ShouldLog(bank string, done, total int) bool {
	if total <= 0 {
		return false
	}
	if s == nil {
		return true
	}
	bank = strings.TrimSpace(bank)
	emit := false
	if bank != s.lastBank {
		s.lastBank = bank
		s.lastBucket = -1
	}
	percent := float64(done) / float64(total) * 100
	bucket := int(percent / s.bucketSize)
	if done >= total {
		bucket = int(100 / s.bucketSize)
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBank = ""
	s.lastBucket = -1
}
