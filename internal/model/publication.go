package model

// Publication types.
const (
	JournalArticle = "journal-article"
	Book           = "book"
	Chapter        = "chapter"
	Proceedings    = "proceedings"
	Thesis         = "thesis"
	Other          = "other"
)

var PublicationTypes = []string{JournalArticle, Book, Chapter, Proceedings, Thesis, Other}

// Publication is a research output registered by a user. It has no role table; only the
// creator's id is rewritten on load.
type Publication struct {
	Base
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract,omitempty"`
	Authors         []string `json:"authors"`
	PublicationType string   `json:"publicationType"`
	Journal         string   `json:"journal,omitempty"`
	Year            int      `json:"year"`
	Link            string   `json:"link,omitempty"`
	Creator         string   `json:"creator"`
}

func (p *Publication) Validate() error {
	r := &requirements{}
	r.nonEmpty("id", p.ID)
	r.nonEmpty("title", p.Title)
	r.nonEmpty("creator", p.Creator)
	r.oneOf("publicationType", p.PublicationType, PublicationTypes...)
	return r.err()
}
