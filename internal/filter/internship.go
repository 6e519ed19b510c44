package filter

import (
	"regexp"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// InternshipType is the kind of opportunity a job description advertises.
type InternshipType string

const (
	PFE         InternshipType = "PFE"
	PFA         InternshipType = "PFA"
	Summer      InternshipType = "SUMMER"
	Unspecified InternshipType = "UNSPECIFIED"
)

// Patterns run against accent-stripped, case-folded text.
var (
	pfaRegex    = regexp.MustCompile(`\b(pfa|projet de fin d.?annee|end[\s-]of[\s-]year project)\b`)
	summerRegex = regexp.MustCompile(`\b(summer|estival|stage d.?ete|ete 20\d{2})\b`)
	pfeRegex    = regexp.MustCompile(`\b(pfe|projet de fin d.?etudes|end[\s-]of[\s-]studies|final[\s-]year (project|internship)|graduation (project|internship))\b`)
)

// ClassifyInternship decides which internship type a job description is
// about. A description naming PFA wins over one that also names PFE, since
// the applicant is looking for a PFA.
func ClassifyInternship(jobDescription string) InternshipType {
	text := fold(jobDescription)

	switch {
	case pfaRegex.MatchString(text):
		return PFA
	case summerRegex.MatchString(text):
		return Summer
	case pfeRegex.MatchString(text):
		return PFE
	default:
		return Unspecified
	}
}

// ReferencesAdvertisement reports whether the email for this type should
// mention the published advertisement.
func (t InternshipType) ReferencesAdvertisement() bool {
	return t != PFE
}

// fold strips diacritics and case so "Été" and "ete" match the same pattern.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
