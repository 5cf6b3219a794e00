package face

import "math"

// Candidate is one enrolled encoding.
type Candidate struct {
	UserID   uint
	Encoding Encoding
}

// Match is the outcome of comparing a query against the gallery.
type Match struct {
	UserID     uint
	Distance   float64
	Confidence float64 // 1 - Distance
}

// BestMatch scans the whole gallery and returns the candidate closest to query.
// Ties go to the lowest user id. ok is false when the gallery is empty, when no
// candidate is comparable, or when the closest distance is not below tolerance.
// Candidates whose length differs from query are skipped.
func BestMatch(query Encoding, gallery []Candidate, tolerance float64) (m Match, ok bool) {
	best := math.Inf(1)
	found := false
	for _, c := range gallery {
		d, err := Distance(query, c.Encoding)
		if err != nil {
			continue
		}
		if d < best || (d == best && c.UserID < m.UserID) {
			best = d
			m = Match{UserID: c.UserID, Distance: d, Confidence: 1 - d}
			found = true
		}
	}
	if !found || best >= tolerance {
		return Match{}, false
	}
	return m, true
}
