package sources

import "strings"

// Subfield is one coded value inside a MARC data field.
type Subfield struct {
	Code  string
	Value string
}

// DataField is a MARC variable data field (tag 010 and above).
type DataField struct {
	Tag       string
	Ind1      string
	Ind2      string
	Subfields []Subfield
}

// ControlField is a MARC control field (tags 001-009).
type ControlField struct {
	Tag   string
	Value string
}

// MARCRecord is a decoded MARC 21 bibliographic record, independent of the
// wire format (MARCXML or ISO 2709) it arrived in.
type MARCRecord struct {
	Leader        string
	ControlFields []ControlField
	DataFields    []DataField
}

// Fields returns every data field carrying tag.
func (r MARCRecord) Fields(tag string) []DataField {
	var out []DataField
	for _, f := range r.DataFields {
		if f.Tag == tag {
			out = append(out, f)
		}
	}
	return out
}

// Subfield returns the first value with code inside the first field tagged
// tag, or "" when either is absent.
func (r MARCRecord) Subfield(tag, code string) string {
	for _, f := range r.DataFields {
		if f.Tag == tag {
			return f.Value(code)
		}
	}
	return ""
}

// Value returns the first subfield value with code.
func (f DataField) Value(code string) string {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return strings.TrimSpace(sf.Value)
		}
	}
	return ""
}

// Title joins 245 $a and $b.
func (r MARCRecord) Title() string {
	fields := r.Fields("245")
	if len(fields) == 0 {
		return ""
	}
	title := fields[0].Value("a")
	if rest := fields[0].Value("b"); rest != "" {
		if title == "" {
			return rest
		}
		title += " " + rest
	}
	return title
}

// Author is the main entry: personal (100), corporate (110) or meeting (111) name.
func (r MARCRecord) Author() string {
	for _, tag := range []string{"100", "110", "111"} {
		if v := r.Subfield(tag, "a"); v != "" {
			return v
		}
	}
	return ""
}

// AddedAuthor is the first added personal name entry (700 $a).
func (r MARCRecord) AddedAuthor() string {
	return r.Subfield("700", "a")
}

// PublicationDate is 260 $c, or 264 $c for RDA records.
func (r MARCRecord) PublicationDate() string {
	if v := r.Subfield("260", "c"); v != "" {
		return v
	}
	return r.Subfield("264", "c")
}

// MARCXML maps a MARC 21 slim <record> element. Element names are matched
// by local name, so both prefixed and default-namespace documents decode.
type MARCXML struct {
	Leader        string `xml:"leader"`
	ControlFields []struct {
		Tag   string `xml:"tag,attr"`
		Value string `xml:",chardata"`
	} `xml:"controlfield"`
	DataFields []struct {
		Tag       string `xml:"tag,attr"`
		Ind1      string `xml:"ind1,attr"`
		Ind2      string `xml:"ind2,attr"`
		Subfields []struct {
			Code  string `xml:"code,attr"`
			Value string `xml:",chardata"`
		} `xml:"subfield"`
	} `xml:"datafield"`
}

// Record converts the XML mapping into a MARCRecord.
func (x MARCXML) Record() MARCRecord {
	rec := MARCRecord{Leader: x.Leader}
	for _, cf := range x.ControlFields {
		rec.ControlFields = append(rec.ControlFields, ControlField{Tag: cf.Tag, Value: cf.Value})
	}
	for _, df := range x.DataFields {
		field := DataField{Tag: df.Tag, Ind1: df.Ind1, Ind2: df.Ind2}
		for _, sf := range df.Subfields {
			field.Subfields = append(field.Subfields, Subfield{Code: sf.Code, Value: sf.Value})
		}
		rec.DataFields = append(rec.DataFields, field)
	}
	return rec
}
