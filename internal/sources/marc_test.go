package sources_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"ukrlit/internal/sources"
	"ukrlit/internal/testsupport"
)

const marcxmlSample = `<marc:record xmlns:marc="http://www.loc.gov/MARC21/slim">
  <marc:leader>00000nam a2200000   4500</marc:leader>
  <marc:controlfield tag="001">rec-1</marc:controlfield>
  <marc:datafield tag="100" ind1="1" ind2=" ">
    <marc:subfield code="a">Шевченко Т.</marc:subfield>
  </marc:datafield>
  <marc:datafield tag="245" ind1="1" ind2="0">
    <marc:subfield code="a">Кобзар</marc:subfield>
    <marc:subfield code="b">вірші</marc:subfield>
  </marc:datafield>
  <marc:datafield tag="264" ind1=" " ind2="1">
    <marc:subfield code="c">1840</marc:subfield>
  </marc:datafield>
  <marc:datafield tag="700" ind1="1" ind2=" ">
    <marc:subfield code="a">Франко І.</marc:subfield>
  </marc:datafield>
</marc:record>`

func TestMARCXMLAccessors(t *testing.T) {
	var doc sources.MARCXML
	require.NoError(t, xml.Unmarshal([]byte(marcxmlSample), &doc))
	rec := doc.Record()

	require.Equal(t, "Кобзар вірші", rec.Title())
	require.Equal(t, "Шевченко Т.", rec.Author())
	require.Equal(t, "Франко І.", rec.AddedAuthor())
	require.Equal(t, "1840", rec.PublicationDate())
	require.Equal(t, "", rec.Subfield("650", "a"))
	require.Len(t, rec.ControlFields, 1)
}

func TestAuthorFallsBackToCorporateName(t *testing.T) {
	rec := sources.MARCRecord{DataFields: []sources.DataField{
		{Tag: "110", Subfields: []sources.Subfield{{Code: "a", Value: "Товариство Просвіта"}}},
	}}
	require.Equal(t, "Товариство Просвіта", rec.Author())
	require.Equal(t, "", rec.Title())
}

func sampleRecord(title, author, date string) sources.MARCRecord {
	return sources.MARCRecord{
		ControlFields: []sources.ControlField{{Tag: "001", Value: "id-" + title}},
		DataFields: []sources.DataField{
			{Tag: "100", Ind1: "1", Subfields: []sources.Subfield{{Code: "a", Value: author}}},
			{Tag: "245", Ind1: "1", Ind2: "0", Subfields: []sources.Subfield{{Code: "a", Value: title}}},
			{Tag: "260", Subfields: []sources.Subfield{{Code: "b", Value: "Київ"}, {Code: "c", Value: date}}},
		},
	}
}

func TestMARCReaderDecodesStream(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(testsupport.EncodeISO2709(sampleRecord("Енеїда", "Котляревський І.", "1798")))
	stream.WriteString("\n")
	stream.Write(testsupport.EncodeISO2709(sampleRecord("Кобзар", "Шевченко Т.", "1840")))

	reader := sources.NewMARCReader(&stream)
	var got []sources.MARCRecord
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Len(t, got, 2)

	want := sampleRecord("Енеїда", "Котляревський І.", "1798")
	// the encoder pads empty indicators with blanks
	want.DataFields[0].Ind2 = " "
	want.DataFields[2].Ind1, want.DataFields[2].Ind2 = " ", " "
	if diff := cmp.Diff(want.DataFields, got[0].DataFields); diff != "" {
		t.Fatalf("decoded fields mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "Шевченко Т.", got[1].Author())
	require.Equal(t, "1840", got[1].PublicationDate())
}

func TestDecodeISO2709Windows1251(t *testing.T) {
	title, err := charmap.Windows1251.NewEncoder().String("Кобзар")
	require.NoError(t, err)

	rec := sampleRecord(title, "Shevchenko", "1840")
	rec.Leader = "00000nam  2200000   4500"
	decoded, err := sources.DecodeISO2709(testsupport.EncodeISO2709(rec))
	require.NoError(t, err)
	require.Equal(t, "Кобзар", decoded.Title())
}

func TestMARCReaderRejectsGarbage(t *testing.T) {
	reader := sources.NewMARCReader(bytes.NewBufferString("abcde not a record"))
	_, err := reader.Next()
	require.Error(t, err)
}
