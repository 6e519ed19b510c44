package filter

import (
	"testing"
)

func TestClassifyInternship(t *testing.T) {
	tests := []struct {
		name     string
		jd       string
		expected InternshipType
	}{
		{
			name:     "PFA explicit",
			jd:       "Data internship, type: PFA",
			expected: PFA,
		},
		{
			name:     "PFE explicit",
			jd:       "Stage PFE en Data Engineering - 6 mois",
			expected: PFE,
		},
		{
			name:     "PFE spelled out with accents",
			jd:       "Projet de Fin d'Études en intelligence artificielle",
			expected: PFE,
		},
		{
			name:     "summer in french with accent",
			jd:       "Stage d'Été - équipe BI",
			expected: Summer,
		},
		{
			name:     "summer in english",
			jd:       "Summer internship in machine learning",
			expected: Summer,
		},
		{
			name:     "both PFA and PFE prefer PFA",
			jd:       "Nous proposons des stages PFE et PFA",
			expected: PFA,
		},
		{
			name:     "nothing stated",
			jd:       "We are hiring a data analyst intern",
			expected: Unspecified,
		},
		{
			name:     "past participle ete is not summer",
			jd:       "L'offre a été publiée pour un stagiaire data",
			expected: Unspecified,
		},
		{
			name:     "pfe inside a word does not match",
			jd:       "Experience with pfeiffer pumps",
			expected: Unspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInternship(tt.jd)
			if got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestReferencesAdvertisement(t *testing.T) {
	for _, typ := range []InternshipType{PFA, Summer, Unspecified} {
		if !typ.ReferencesAdvertisement() {
			t.Errorf("%s should reference the advertisement", typ)
		}
	}
	if PFE.ReferencesAdvertisement() {
		t.Errorf("PFE should not reference the advertisement")
	}
}
