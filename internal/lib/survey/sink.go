package survey

import (
	"context"
	"strings"
	"sync"
)

// MemorySink collects segments in memory
type MemorySink struct {
	mutex    sync.Mutex
	segments []LineSegment
}

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// WriteSegments appends segments
func (m *MemorySink) WriteSegments(ctx context.Context, segments []LineSegment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.segments = append(m.segments, segments...)
	return nil
}

// DeletePrefix removes segments whose prefix contains prefix and returns how many were removed
func (m *MemorySink) DeletePrefix(prefix string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	kept := m.segments[:0]
	for _, s := range m.segments {
		if !strings.Contains(s.Prefix, prefix) {
			kept = append(kept, s)
		}
	}
	removed := len(m.segments) - len(kept)
	m.segments = kept
	return removed
}

// Segments returns a copy of everything written so far
func (m *MemorySink) Segments() []LineSegment {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	out := make([]LineSegment, len(m.segments))
	copy(out, m.segments)
	return out
}

// StaticDepths is a DepthSource over a fixed set of samples
type StaticDepths []DepthSample

// Samples returns the samples whose coordinates fall inside extent
func (s StaticDepths) Samples(ctx context.Context, extent BoundingExtent) ([]DepthSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []DepthSample
	for _, sample := range s {
		if sample.Coordinate.System == extent.System && extent.Contains(sample.Coordinate) {
			out = append(out, sample)
		}
	}
	return out, nil
}
