package testsupport

import (
	"bytes"
	"fmt"

	"ukrlit/internal/sources"
)

// EncodeISO2709 serializes rec as a binary MARC record. The leader's length
// and base address are computed; positions 5-11 and 17-23 come from
// rec.Leader when it is 24 bytes long.
func EncodeISO2709(rec sources.MARCRecord) []byte {
	var directory, data bytes.Buffer
	addField := func(tag string, body []byte) {
		body = append(body, 0x1e)
		fmt.Fprintf(&directory, "%3s%04d%05d", tag, len(body), data.Len())
		data.Write(body)
	}
	for _, cf := range rec.ControlFields {
		addField(cf.Tag, []byte(cf.Value))
	}
	for _, df := range rec.DataFields {
		var body bytes.Buffer
		body.WriteString(pad(df.Ind1))
		body.WriteString(pad(df.Ind2))
		for _, sf := range df.Subfields {
			body.WriteByte(0x1f)
			body.WriteString(sf.Code)
			body.WriteString(sf.Value)
		}
		addField(df.Tag, body.Bytes())
	}
	directory.WriteByte(0x1e)

	leader := []byte("00000nam a2200000   4500")
	if len(rec.Leader) == 24 {
		copy(leader, rec.Leader)
	}
	base := 24 + directory.Len()
	total := base + data.Len() + 1
	copy(leader[0:5], fmt.Sprintf("%05d", total))
	copy(leader[12:17], fmt.Sprintf("%05d", base))

	var out bytes.Buffer
	out.Write(leader)
	out.Write(directory.Bytes())
	out.Write(data.Bytes())
	out.WriteByte(0x1d)
	return out.Bytes()
}

func pad(ind string) string {
	if ind == "" {
		return " "
	}
	return ind[:1]
}
