package sources

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	leaderLength      = 24
	directoryEntryLen = 12
	fieldTerminator   = 0x1e
	recordTerminator  = 0x1d
	subfieldDelimiter = 0x1f
)

// MARCReader decodes a stream of ISO 2709 (binary MARC) records, the format
// Z39.50 servers return for the USMARC syntax.
type MARCReader struct {
	r *bufio.Reader
}

// NewMARCReader wraps r.
func NewMARCReader(r io.Reader) *MARCReader {
	return &MARCReader{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF when the stream is exhausted.
func (m *MARCReader) Next() (MARCRecord, error) {
	if err := m.skipSeparators(); err != nil {
		return MARCRecord{}, err
	}
	head, err := m.r.Peek(5)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return MARCRecord{}, io.ErrUnexpectedEOF
		}
		return MARCRecord{}, err
	}
	length, err := strconv.Atoi(string(head))
	if err != nil || length < leaderLength+1 {
		return MARCRecord{}, fmt.Errorf("marc: invalid record length %q", head)
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(m.r, raw); err != nil {
		return MARCRecord{}, fmt.Errorf("marc: read record: %w", err)
	}
	return DecodeISO2709(raw)
}

// skipSeparators drops line breaks some capture tools put between records.
func (m *MARCReader) skipSeparators() error {
	for {
		b, err := m.r.ReadByte()
		if err != nil {
			return err
		}
		switch b {
		case '\n', '\r', ' ', recordTerminator:
			continue
		}
		return m.r.UnreadByte()
	}
}

// DecodeISO2709 parses one complete binary record.
func DecodeISO2709(raw []byte) (MARCRecord, error) {
	if len(raw) < leaderLength+1 {
		return MARCRecord{}, errors.New("marc: record shorter than leader")
	}
	leader := raw[:leaderLength]
	base, err := strconv.Atoi(string(leader[12:17]))
	if err != nil || base <= leaderLength || base > len(raw) {
		return MARCRecord{}, fmt.Errorf("marc: invalid base address %q", leader[12:17])
	}
	decode := textDecoder(leader[9])

	rec := MARCRecord{Leader: string(leader)}
	directory := raw[leaderLength : base-1]
	if len(directory)%directoryEntryLen != 0 {
		return MARCRecord{}, fmt.Errorf("marc: directory length %d is not a multiple of %d", len(directory), directoryEntryLen)
	}
	for i := 0; i < len(directory); i += directoryEntryLen {
		entry := directory[i : i+directoryEntryLen]
		tag := string(entry[:3])
		fieldLen, errLen := strconv.Atoi(string(entry[3:7]))
		start, errStart := strconv.Atoi(string(entry[7:12]))
		if errLen != nil || errStart != nil {
			return MARCRecord{}, fmt.Errorf("marc: invalid directory entry %q", entry)
		}
		from, to := base+start, base+start+fieldLen
		if from < base || to > len(raw) || fieldLen == 0 {
			return MARCRecord{}, fmt.Errorf("marc: field %s out of bounds", tag)
		}
		data := bytes.TrimRight(raw[from:to], string([]byte{fieldTerminator, recordTerminator}))

		if tag < "010" {
			rec.ControlFields = append(rec.ControlFields, ControlField{Tag: tag, Value: decode(data)})
			continue
		}
		field := DataField{Tag: tag}
		if len(data) >= 2 {
			field.Ind1, field.Ind2 = string(data[0]), string(data[1])
			data = data[2:]
		}
		for _, chunk := range bytes.Split(data, []byte{subfieldDelimiter}) {
			if len(chunk) == 0 {
				continue
			}
			field.Subfields = append(field.Subfields, Subfield{Code: string(chunk[0]), Value: decode(chunk[1:])})
		}
		rec.DataFields = append(rec.DataFields, field)
	}
	return rec, nil
}

// textDecoder picks the field decoder from leader position 9. Records that
// do not declare UTF-8 and are not valid UTF-8 are read as Windows-1251,
// which is what IRBIS installations emit.
func textDecoder(scheme byte) func([]byte) string {
	return func(b []byte) string {
		if scheme == 'a' || utf8.Valid(b) {
			return string(b)
		}
		out, err := charmap.Windows1251.NewDecoder().Bytes(b)
		if err != nil {
			return string(b)
		}
		return string(out)
	}
}
