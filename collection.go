package typeface

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	ot "github.com/go-text/typesetting/font/opentype"
)

// maxMembers bounds the member count of a collection header.
const maxMembers = 2048

var errBadCollection = errors.New("malformed collection header")

// memberOffsets returns where each member of a collection starts. The
// table offsets of dfont members are relative to the member start, those
// of TrueType collection members to the start of data.
func memberOffsets(data []byte) (offsets []uint32, relative bool, err error) {
	if len(data) < 4 {
		return nil, false, errBadCollection
	}
	switch binary.BigEndian.Uint32(data) {
	case sigCollection:
		offsets, err = ttcOffsets(data)
		return offsets, false, err
	case sigDfont:
		offsets, err = dfontOffsets(data)
		return offsets, true, err
	}
	return nil, false, errBadCollection
}

func ttcOffsets(data []byte) ([]uint32, error) {
	if len(data) < 12 {
		return nil, errBadCollection
	}
	n := binary.BigEndian.Uint32(data[8:])
	if n == 0 || n > maxMembers || uint64(len(data)) < 12+4*uint64(n) {
		return nil, errBadCollection
	}
	offsets := make([]uint32, n)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(data[12+4*i:])
	}
	return offsets, nil
}

// dfontOffsets walks the resource map of a Mac dfont to its 'sfnt'
// resources. Each resource starts with a 4-byte length.
func dfontOffsets(data []byte) ([]uint32, error) {
	be := binary.BigEndian
	if len(data) < 16 {
		return nil, errBadCollection
	}
	mapOff, mapLen := uint64(be.Uint32(data[4:])), uint64(be.Uint32(data[12:]))
	if mapLen < 28 || mapOff+mapLen > uint64(len(data)) {
		return nil, errBadCollection
	}
	m := data[mapOff : mapOff+mapLen]

	typeList := int(int16(be.Uint16(m[24:])))
	if typeList < 28 || typeList+2 > len(m) {
		return nil, errBadCollection
	}
	typeCount := int(be.Uint16(m[typeList:])) + 1
	types := m[typeList+2:]
	if typeCount > 0xFFFF || len(types) < 8*typeCount {
		return nil, errBadCollection
	}

	count, refList := 0, 0
	for i := 0; i < typeCount; i++ {
		t := types[8*i:]
		if be.Uint32(t) != 0x73666e74 { // 'sfnt'
			continue
		}
		n, off := int(int16(be.Uint16(t[4:]))), int(int16(be.Uint16(t[6:])))
		if n < 0 || off < 0 {
			return nil, errBadCollection
		}
		count, refList = n+1, off
	}
	if count == 0 || count > maxMembers || typeList+refList > len(m) {
		return nil, errBadCollection
	}
	refs := m[typeList+refList:]
	if len(refs) < 12*count {
		return nil, errBadCollection
	}

	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = be.Uint32(refs[12*i+4:])&0xFFFFFF + sigDfont + 4
	}
	return offsets, nil
}

// loadMember reads the table directory of collection member index and
// nothing else, so a broken sibling does not affect it.
func loadMember(data []byte, index uint32) (*ot.Loader, error) {
	offsets, relative, err := memberOffsets(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	if uint64(index) >= uint64(len(offsets)) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(offsets))
	}
	start := offsets[index]
	if uint64(start) >= uint64(len(data)) {
		return nil, fmt.Errorf("%w: member %d starts past the end", ErrInvalidFont, index)
	}

	var ld *ot.Loader
	err = guard(func() (err error) {
		if relative {
			ld, err = ot.NewLoader(io.NewSectionReader(bytes.NewReader(data), int64(start), int64(len(data))-int64(start)))
			return err
		}
		view := newMemberView(data, start)
		lds, err := ot.NewLoaders(io.NewSectionReader(view, 0, int64(len(data))))
		if err != nil {
			return err
		}
		ld = lds[0]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	return ld, nil
}

// memberView presents a TrueType collection as if it held a single member.
// The first 16 bytes are a one-entry collection header pointing at the
// member; every other byte comes from the underlying data.
type memberView struct {
	data   []byte
	header [16]byte
}

// newMemberView expects data to hold a collection header of at least one
// entry, which covers the 16 replaced bytes.
func newMemberView(data []byte, start uint32) *memberView {
	v := &memberView{data: data}
	copy(v.header[:8], data)
	binary.BigEndian.PutUint32(v.header[8:], 1)
	binary.BigEndian.PutUint32(v.header[12:], start)
	return v
}

func (v *memberView) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if off >= int64(len(v.data)) {
		return 0, io.EOF
	}
	n := copy(p, v.data[off:])
	if off < int64(len(v.header)) {
		copy(p[:n], v.header[off:])
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
