package marc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Record layout delimiters per ISO 2709.
const (
	fieldTerminator    = 0x1e
	subfieldDelimiter  = 0x1f
	recordTerminator   = 0x1d
	leaderLen          = 24
	directoryEntryLen  = 12
	baseAddressOffset  = 12
	baseAddressLength  = 5
	recordLengthDigits = 5
)

// Synthetic subfield keys carried on every decoded occurrence.
const (
	KeyIndicator1 = "i1"
	KeyIndicator2 = "i2"
	// KeyNone holds the content of control fields, which have no subfields.
	KeyNone = "none"
)

// ErrMalformed marks record strings whose leader, directory or field data
// cannot be walked. The record must be skipped entirely.
var ErrMalformed = errors.New("malformed marc record")

// ErrEmptyRecord marks structurally valid records that carry no fields.
// Callers treat the tagged source as absent and continue.
var ErrEmptyRecord = errors.New("empty marc record")

// Occurrence is one occurrence of a tag: subfield code (or synthetic key)
// to the ordered values it contributed.
type Occurrence map[string][]string

// Record is a decoded tagged record: three-digit tag to the ordered
// occurrences of that tag. Read-only after decoding.
type Record map[string][]Occurrence

// Decode parses a raw ISO 2709 record string into a Record.
func Decode(raw string) (Record, error) {
	if len(raw) < leaderLen {
		return nil, fmt.Errorf("%w: leader truncated (%d bytes)", ErrMalformed, len(raw))
	}

	declared, err := strconv.Atoi(raw[0:recordLengthDigits])
	if err != nil {
		return nil, fmt.Errorf("%w: record length %q not numeric", ErrMalformed, raw[0:recordLengthDigits])
	}

	if declared > len(raw) {
		return nil, fmt.Errorf("%w: declared length %d exceeds data (%d bytes)", ErrMalformed, declared, len(raw))
	}

	base, err := strconv.Atoi(raw[baseAddressOffset : baseAddressOffset+baseAddressLength])
	if err != nil || base <= leaderLen || base > len(raw) {
		return nil, fmt.Errorf("%w: invalid base address %q", ErrMalformed, raw[baseAddressOffset:baseAddressOffset+baseAddressLength])
	}

	// Directory runs from the leader to the field terminator before base.
	directory := raw[leaderLen : base-1]
	if len(directory)%directoryEntryLen != 0 {
		return nil, fmt.Errorf("%w: directory length %d not a multiple of %d", ErrMalformed, len(directory), directoryEntryLen)
	}

	if len(directory) == 0 {
		return nil, ErrEmptyRecord
	}

	rec := make(Record)

	for off := 0; off < len(directory); off += directoryEntryLen {
		entry := directory[off : off+directoryEntryLen]
		tag := entry[0:3]

		fieldLen, err := strconv.Atoi(entry[3:7])
		if err != nil {
			return nil, fmt.Errorf("%w: field length %q in directory entry for tag %s", ErrMalformed, entry[3:7], tag)
		}

		fieldOff, err := strconv.Atoi(entry[7:12])
		if err != nil {
			return nil, fmt.Errorf("%w: field offset %q in directory entry for tag %s", ErrMalformed, entry[7:12], tag)
		}

		start := base + fieldOff
		end := start + fieldLen
		if start >= len(raw) || end > len(raw) || start >= end {
			return nil, fmt.Errorf("%w: field data for tag %s out of bounds", ErrMalformed, tag)
		}

		data := strings.TrimRight(raw[start:end], string(rune(fieldTerminator))+string(rune(recordTerminator)))

		occ, err := decodeField(tag, data)
		if err != nil {
			return nil, err
		}

		rec[tag] = append(rec[tag], occ)
	}

	if len(rec) == 0 {
		return nil, ErrEmptyRecord
	}

	return rec, nil
}

// decodeField splits one field's data area into an Occurrence.
// Control fields (tag below 010) carry their content under KeyNone;
// data fields carry indicators plus delimited subfields.
func decodeField(tag, data string) (Occurrence, error) {
	occ := make(Occurrence)

	if tag < "010" {
		occ[KeyNone] = []string{data}
		return occ, nil
	}

	parts := strings.Split(data, string(rune(subfieldDelimiter)))

	indicators := parts[0]
	switch len(indicators) {
	case 0:
		occ[KeyIndicator1] = []string{" "}
		occ[KeyIndicator2] = []string{" "}
	case 1:
		occ[KeyIndicator1] = []string{indicators}
		occ[KeyIndicator2] = []string{" "}
	default:
		occ[KeyIndicator1] = []string{indicators[0:1]}
		occ[KeyIndicator2] = []string{indicators[1:2]}
	}

	for _, sub := range parts[1:] {
		if sub == "" {
			continue
		}

		code := sub[0:1]
		occ[code] = append(occ[code], sub[1:])
	}

	return occ, nil
}

// Subfield returns every value the given subfield code contributed across
// all occurrences of the tag, preserving occurrence order. The second return
// reports whether the tag exists at all.
func (r Record) Subfield(tag, code string) ([]string, bool) {
	occs, ok := r[tag]
	if !ok {
		return nil, false
	}

	var out []string
	for _, occ := range occs {
		out = append(out, occ[code]...)
	}

	return out, true
}
