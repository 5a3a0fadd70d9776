package models

// Product represents a bank financial product in the catalog.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  Date   `json:"date_release"`
	DateRevision Date   `json:"date_revision"`
}

// RevisionFor returns the revision date for a release date: exactly one
// calendar year later.
func RevisionFor(release Date) Date {
	return release.AddYears(1)
}

// WithRevision returns a copy of p whose revision date is derived from its
// release date.
func (p Product) WithRevision() Product {
	p.DateRevision = RevisionFor(p.DateRelease)
	return p
}
