package records_test

import (
	"errors"
	"testing"

	"ukrlit/internal/records"
)

func TestNormalizeComputesTransliteratedKey(t *testing.T) {
	rec, err := records.Normalize(records.Candidate{Title: "Кобзар", Author: "Шевченко Т.", YearPublished: 1840})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got, want := rec.Key(), "shevchenko t.|kobzar"; got != want {
		t.Fatalf("unexpected key: got %q want %q", got, want)
	}
	if rec.YearWritten != 0 {
		t.Fatalf("expected unknown year written, got %d", rec.YearWritten)
	}
	if rec.YearPublished != 1840 {
		t.Fatalf("unexpected year published: %d", rec.YearPublished)
	}
}

func TestNormalizeStripsTrailingPunctuation(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		wantTitle  string
		wantAuthor string
	}{
		{"marc slash", "Лісова пісня /", "Українка Леся ;", "Лісова пісня", "Українка Леся"},
		{"title period", "Енеїда.", "Котляревський І. П.", "Енеїда", "Котляревський І. П."},
		{"author full name period", "Захар Беркут :", "Франко Іван.", "Захар Беркут", "Франко Іван"},
		{"padding", "  Intermezzo  ", "  Коцюбинський М.  ", "Intermezzo", "Коцюбинський М."},
		{"repeated initial period", "Title", "Author A..", "Title", "Author A."},
		{"no-break space before period", "Кобзар\u00a0.", "Author\u00a0.", "Кобзар", "Author"},
		{"no-break space after initial", "Title\u00a0/\u00a0", "Шевченко Т.\u00a0;\u00a0", "Title", "Шевченко Т."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := records.Normalize(records.Candidate{Title: tt.title, Author: tt.author})
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if rec.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", rec.Title, tt.wantTitle)
			}
			if rec.Author != tt.wantAuthor {
				t.Errorf("author = %q, want %q", rec.Author, tt.wantAuthor)
			}
		})
	}
}

func TestNormalizeRejectsEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", " / : ; ."} {
		_, err := records.Normalize(records.Candidate{Title: title, Author: "Someone"})
		if err == nil {
			t.Fatalf("expected rejection for title %q", title)
		}
		if !errors.Is(err, records.ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
		if reason := records.RejectionReason(err); reason != records.ReasonEmptyTitle {
			t.Fatalf("unexpected reason %q", reason)
		}
	}
}

func TestNormalizeTreatsNonPositiveYearsAsUnknown(t *testing.T) {
	rec, err := records.Normalize(records.Candidate{Title: "Title", YearWritten: 0, YearPublished: -5})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if rec.YearWritten != 0 || rec.YearPublished != 0 {
		t.Fatalf("expected unknown years, got %d/%d", rec.YearWritten, rec.YearPublished)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []records.Candidate{
		{Title: "Кобзар.", Author: "Шевченко Т."},
		{Title: "Тіні забутих предків /", Author: "Коцюбинський, Михайло ;"},
		{Title: "  Мартин Боруля :", Author: ""},
		{Title: "Наталка Полтавка", Author: "Котляревський І.."},
	}
	for _, in := range inputs {
		first, err := records.Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%+v) returned error: %v", in, err)
		}
		second, err := records.Normalize(first.Candidate())
		if err != nil {
			t.Fatalf("second Normalize returned error: %v", err)
		}
		if first.Key() != second.Key() {
			t.Fatalf("key changed on re-normalization: %q -> %q", first.Key(), second.Key())
		}
		if first != second {
			t.Fatalf("record changed on re-normalization: %+v -> %+v", first, second)
		}
	}
}

func TestIdentityKeyIgnoresCaseAndOuterWhitespace(t *testing.T) {
	base := records.IdentityKey("Шевченко Т.", "Кобзар")
	variants := [][2]string{
		{"  шевченко т.", "КОБЗАР  "},
		{"ШЕВЧЕНКО Т.", "\tкобзар"},
		{"Shevchenko T.", "Kobzar"},
	}
	for _, v := range variants {
		if got := records.IdentityKey(v[0], v[1]); got != base {
			t.Fatalf("IdentityKey(%q, %q) = %q, want %q", v[0], v[1], got, base)
		}
	}
}

func TestIdentityKeyEmptyAuthorCollides(t *testing.T) {
	a := records.Record{Title: "Заповіт"}
	b := records.Record{Title: "заповіт "}
	if a.Key() != b.Key() {
		t.Fatalf("expected empty-author records to collide: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() != "|zapovit" {
		t.Fatalf("unexpected key %q", a.Key())
	}
}
