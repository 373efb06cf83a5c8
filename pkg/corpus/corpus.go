package corpus

import "strconv"

// French collection labels used by the Type column of the index export.
const (
	TypePersons       = "Personnes"
	TypeOrganizations = "Organisations"
	TypeEvents        = "Événements"
	TypeSubjects      = "Sujets"
	TypeLocations     = "Lieux"
)

// Article is one press article row from the corpus export (articles.json).
// Subject and Spatial carry pipe-separated association lists naming the
// entities and places the article mentions.
type Article struct {
	ID        string `json:"o:id"`
	Title     string `json:"title"`
	Newspaper string `json:"newspaper"`
	Country   string `json:"country"`
	PubDate   string `json:"pub_date"`
	Subject   string `json:"subject"`
	Spatial   string `json:"spatial"`
}

// IndexEntry is one authority-index row from the corpus export (index.json).
// Type carries the French collection label (Personnes, Organisations,
// Événements, Sujets, Lieux). Coordinates is the raw "lat, lng" string for
// location entries. Country is filled in by the add-countries step.
type IndexEntry struct {
	ID          *int64 `json:"o:id"`
	Title       string `json:"Titre"`
	Type        string `json:"Type"`
	Coordinates string `json:"Coordonnées"`
	Country     string `json:"Country,omitempty"`
}

// IDString returns the entry's numeric id as a string, or "" when absent.
func (e IndexEntry) IDString() string {
	if e.ID == nil {
		return ""
	}
	return strconv.FormatInt(*e.ID, 10)
}
