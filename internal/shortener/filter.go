package shortener

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// CodeFilter is a thread-safe bloom filter over issued short codes. A
// negative answer means the code is definitely unused, letting creation
// flows skip the uniqueness query in the common case; a positive answer
// only means the database must be consulted. Codes are folded to lower
// case so the filter answers for the case-insensitive code namespace.
type CodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeFilter creates a filter sized for the expected number of codes.
func NewCodeFilter(capacity uint, falsePositiveRate float64) *CodeFilter {
	return &CodeFilter{
		filter: bloom.NewWithEstimates(capacity, falsePositiveRate),
	}
}

// Add records an issued code.
func (f *CodeFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filter.AddString(strings.ToLower(code))
}

// Seed loads existing codes, typically at process start.
func (f *CodeFilter) Seed(codes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, code := range codes {
		f.filter.AddString(strings.ToLower(code))
	}
}

// MightContain reports whether the code may have been issued. False
// positives are possible, false negatives are not.
func (f *CodeFilter) MightContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.filter.TestString(strings.ToLower(code))
}
