package typeface

// TableData copies the bytes of table tag, starting at offset, into dst.
//
// When dst is empty TableData copies nothing and returns the number of
// bytes available from offset, so a caller can size its buffer first.
// Otherwise it copies as many bytes as fit and returns that count.
// A missing table has length 0; an offset past the end, or negative,
// leaves 0 bytes available. The result never exceeds len(dst) when dst is
// non-empty.
func (f *Font) TableData(tag Tag, offset int, dst []byte) int {
	table := f.rawTable(tag)

	available := 0
	if offset >= 0 && offset < len(table) {
		available = len(table) - offset
	}
	if len(dst) == 0 {
		return available
	}
	return copy(dst, table[len(table)-available:])
}

// TableTags returns the tags of every table in the directory, sorted.
func (f *Font) TableTags() []Tag {
	if !f.IsValid() {
		return nil
	}
	return f.ld.Tables()
}

// HasTable reports whether the directory lists tag.
func (f *Font) HasTable(tag Tag) bool {
	return f.IsValid() && f.ld.HasTable(tag)
}

// rawTable returns a copy of table tag, or nil when it is absent or
// cannot be read.
func (f *Font) rawTable(tag Tag) []byte {
	if !f.IsValid() {
		return nil
	}
	raw, err := f.ld.RawTable(tag)
	if err != nil {
		return nil
	}
	return raw
}
