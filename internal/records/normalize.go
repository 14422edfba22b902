package records

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
)

const (
	titlePunct  = "/:;."
	authorPunct = "/:;"
)

// Normalize trims a candidate into canonical form. It returns a
// *RejectedError when the title is empty after trimming.
func Normalize(c Candidate) (Record, error) {
	title := CleanTitle(c.Title)
	if title == "" {
		return Record{}, Reject(ReasonEmptyTitle)
	}
	return Record{
		Title:         title,
		Author:        CleanAuthor(c.Author),
		YearWritten:   knownYear(c.YearWritten),
		YearPublished: knownYear(c.YearPublished),
	}, nil
}

// CleanTitle trims whitespace and trailing "/ : ; ." punctuation.
func CleanTitle(title string) string {
	return trimTrailing(strings.TrimSpace(title), titlePunct)
}

// CleanAuthor trims whitespace and trailing "/ : ;" punctuation. Trailing
// periods are dropped too, except one closing a single-letter initial such as
// "Шевченко Т.".
func CleanAuthor(author string) string {
	author = trimTrailing(strings.TrimSpace(author), authorPunct)
	for strings.HasSuffix(author, ".") {
		stem := trimTrailing(author[:len(author)-1], authorPunct)
		if endsWithInitial(stem) && !strings.HasSuffix(stem, ".") {
			return stem + "."
		}
		author = stem
	}
	return author
}

// trimTrailing drops trailing Unicode whitespace (including no-break spaces)
// and any rune in punct.
func trimTrailing(s, punct string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(punct, r)
	})
}

func endsWithInitial(s string) bool {
	last, size := utf8.DecodeLastRuneInString(s)
	if size == 0 || !unicode.IsLetter(last) {
		return false
	}
	rest := s[:len(s)-size]
	if rest == "" {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(rest)
	return !unicode.IsLetter(prev)
}

// IdentityKey joins the folded author and title with a literal "|".
func IdentityKey(author, title string) string {
	return Fold(author) + "|" + Fold(title)
}

// Fold transliterates s to Latin, lowercases it and trims outer whitespace.
func Fold(s string) string {
	return strings.TrimSpace(strings.ToLower(Transliterate(s)))
}

// Transliterate maps non-Latin text (primarily Cyrillic) to an ASCII
// approximation. It is only used for key computation.
func Transliterate(s string) string {
	if s == "" {
		return ""
	}
	return unidecode.Unidecode(s)
}
