package machine

// Memory is the flat word-addressed array backing a variation, bounds
// checked on every access per spec.md §3/§5.
type Memory struct {
	words []uint32
}

// NewMemory allocates n zeroed words.
func NewMemory(n uint32) *Memory {
	return &Memory{words: make([]uint32, n)}
}

// Len reports the number of addressable words.
func (m *Memory) Len() uint32 { return uint32(len(m.words)) }

// Read returns mem[addr], or InvalidMemoryAccess if addr is out of range.
func (m *Memory) Read(addr uint32) (uint32, error) {
	if addr >= uint32(len(m.words)) {
		return 0, &Exception{Code: InvalidMemoryAccess}
	}
	return m.words[addr], nil
}

// Write sets mem[addr] = v, or returns InvalidMemoryAccess if addr is out
// of range.
func (m *Memory) Write(addr uint32, v uint32) error {
	if addr >= uint32(len(m.words)) {
		return &Exception{Code: InvalidMemoryAccess}
	}
	m.words[addr] = v
	return nil
}

// ReadWords reads two consecutive words as one 64-bit value, high word
// first, matching the instruction memory layout from spec.md §4.5/§4.6.
func (m *Memory) ReadWords(addr uint32) (hi, lo uint32, err error) {
	hi, err = m.Read(addr)
	if err != nil {
		return 0, 0, err
	}
	lo, err = m.Read(addr + 1)
	if err != nil {
		return 0, 0, err
	}
	return hi, lo, nil
}

// WriteWords writes hi, lo at addr, addr+1.
func (m *Memory) WriteWords(addr uint32, hi, lo uint32) error {
	if err := m.Write(addr, hi); err != nil {
		return err
	}
	return m.Write(addr+1, lo)
}
