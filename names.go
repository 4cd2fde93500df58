package typeface

import (
	"encoding/binary"

	"github.com/go-text/typesetting/font/opentype/tables"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// NameID identifies a string in the 'name' table.
type NameID uint16

// Well-known name IDs.
const (
	NameCopyright            NameID = 0
	NameFamily               NameID = 1
	NameSubfamily            NameID = 2
	NameUniqueID             NameID = 3
	NameFull                 NameID = 4
	NameVersion              NameID = 5
	NamePostScript           NameID = 6
	NameTypographicFamily    NameID = 16
	NameTypographicSubfamily NameID = 17
)

// LocalizedString is one localization of a name.
type LocalizedString struct {
	Value string

	// Language is a BCP 47 tag such as "en-US", or "" when the record
	// does not identify a known language.
	Language string
}

// nameRecord is one entry of the 'name' table record array.
type nameRecord struct {
	platform tables.PlatformID
	encoding tables.EncodingID
	language uint16
	id       NameID
	length   uint16
	offset   uint16
}

// nameTable is a decoded 'name' table header. String data is decoded on
// demand.
type nameTable struct {
	records  []nameRecord
	storage  []byte
	langTags []string
}

const (
	nameHeaderSize = 6
	nameRecordSize = 12

	// Language IDs at or above this value index the language-tag records
	// of a version 1 table.
	firstLangTagID = 0x8000
)

// parseNameTable reads the record array of a 'name' table. Records that
// fall outside the table are dropped.
func parseNameTable(raw []byte) nameTable {
	var t nameTable
	if len(raw) < nameHeaderSize {
		return t
	}
	version := binary.BigEndian.Uint16(raw)
	count := int(binary.BigEndian.Uint16(raw[2:]))
	storageOffset := int(binary.BigEndian.Uint16(raw[4:]))
	if storageOffset <= len(raw) {
		t.storage = raw[storageOffset:]
	}

	count = min(count, (len(raw)-nameHeaderSize)/nameRecordSize)
	t.records = make([]nameRecord, count)
	for i := range t.records {
		b := raw[nameHeaderSize+i*nameRecordSize:]
		t.records[i] = nameRecord{
			platform: tables.PlatformID(binary.BigEndian.Uint16(b)),
			encoding: tables.EncodingID(binary.BigEndian.Uint16(b[2:])),
			language: binary.BigEndian.Uint16(b[4:]),
			id:       NameID(binary.BigEndian.Uint16(b[6:])),
			length:   binary.BigEndian.Uint16(b[8:]),
			offset:   binary.BigEndian.Uint16(b[10:]),
		}
	}

	if version == 1 {
		t.langTags = parseLangTags(raw[nameHeaderSize+count*nameRecordSize:], t.storage)
	}
	return t
}

// parseLangTags decodes the language-tag records following the name
// records of a version 1 table.
func parseLangTags(b, storage []byte) []string {
	if len(b) < 2 {
		return nil
	}
	n := int(binary.BigEndian.Uint16(b))
	n = min(n, (len(b)-2)/4)
	tags := make([]string, n)
	for i := range tags {
		r := b[2+i*4:]
		length := int(binary.BigEndian.Uint16(r))
		offset := int(binary.BigEndian.Uint16(r[2:]))
		if offset+length > len(storage) {
			continue
		}
		s, err := decodeBytes(utf16BE, storage[offset:offset+length])
		if err != nil {
			continue
		}
		tags[i] = s
	}
	return tags
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func decodeBytes(enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// recordEncoding returns the text encoding of a record, or nil when the
// platform and encoding pair is not supported.
func recordEncoding(r nameRecord) encoding.Encoding {
	switch r.platform {
	case tables.PlatformUnicode:
		return utf16BE
	case tables.PlatformMicrosoft:
		switch r.encoding {
		case tables.PEMicrosoftSymbolCs, tables.PEMicrosoftUnicodeCs, tables.PEMicrosoftUcs4:
			return utf16BE
		}
	case tables.PlatformMac:
		if r.encoding == tables.PEMacRoman {
			return charmap.Macintosh
		}
	}
	return nil
}

// decode returns the string value of r, or false when it is empty,
// out of bounds, or in an unsupported encoding.
func (t *nameTable) decode(r nameRecord) (string, bool) {
	if r.length == 0 {
		return "", false
	}
	end := int(r.offset) + int(r.length)
	if end > len(t.storage) {
		return "", false
	}
	enc := recordEncoding(r)
	if enc == nil {
		return "", false
	}
	s, err := decodeBytes(enc, t.storage[r.offset:end])
	if err != nil {
		return "", false
	}
	return s, true
}

// language returns the BCP 47 tag of r, or "".
func (t *nameTable) language(r nameRecord) string {
	if r.language >= firstLangTagID {
		i := int(r.language - firstLangTagID)
		if i < len(t.langTags) {
			return canonicalLanguage(t.langTags[i])
		}
		return ""
	}
	return canonicalLanguage(platformLanguage(r.platform, r.language))
}

// LocalizedStrings is a forward-only cursor over the localizations of one
// name, in table order. It is not safe for concurrent use.
type LocalizedStrings struct {
	table *nameTable
	id    NameID
	pos   int
}

// LocalizedStrings returns a cursor over every decodable localization of
// name id. The cursor of an invalid Font, or of a Font without a 'name'
// table, is already exhausted.
func (f *Font) LocalizedStrings(id NameID) *LocalizedStrings {
	it := &LocalizedStrings{id: id}
	if raw := f.rawTable(tagName); raw != nil {
		t := parseNameTable(raw)
		it.table = &t
	}
	return it
}

// LocalizedFamilyNames returns a cursor over the localized family names.
func (f *Font) LocalizedFamilyNames() *LocalizedStrings {
	return f.LocalizedStrings(NameFamily)
}

// Next returns the next localization. Once the cursor is exhausted it
// keeps returning false.
func (it *LocalizedStrings) Next() (LocalizedString, bool) {
	if it == nil || it.table == nil {
		return LocalizedString{}, false
	}
	for it.pos < len(it.table.records) {
		r := it.table.records[it.pos]
		it.pos++
		if r.id != it.id {
			continue
		}
		s, ok := it.table.decode(r)
		if !ok {
			Logger().Debug("typeface: name record skipped",
				"name", r.id,
				"platform", r.platform,
				"encoding", r.encoding)
			continue
		}
		return LocalizedString{Value: s, Language: it.table.language(r)}, true
	}
	return LocalizedString{}, false
}

// englishOrFirst returns the best English localization of id, ranked by
// [englishRank], or the first localization when none is English.
func (f *Font) englishOrFirst(id NameID) (string, bool) {
	var (
		best string
		rank = rankNone
	)
	it := f.LocalizedStrings(id)
	for s, ok := it.Next(); ok; s, ok = it.Next() {
		r := englishRank(s.Language)
		if r < rank {
			best, rank = s.Value, r
		}
		if rank == rankEnglishUS {
			break
		}
	}
	return best, rank != rankNone
}

// FamilyName returns the family name, preferring an English localization.
// It returns "" when the name is absent.
func (f *Font) FamilyName() string {
	s, _ := f.englishOrFirst(NameFamily)
	return s
}

// PostScriptName returns the PostScript name, preferring an English
// localization. It returns false when the name is absent.
func (f *Font) PostScriptName() (string, bool) {
	return f.englishOrFirst(NamePostScript)
}
