package gebco

// MemoryStore is an ElevationStore over an in-memory slice
type MemoryStore []int16

// At returns the value at index
func (m MemoryStore) At(index int) (int16, error) {
	return m[index], nil
}

// Len returns the number of stored values
func (m MemoryStore) Len() int {
	return len(m)
}
