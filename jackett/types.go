package jackett

import (
	"encoding/xml"
	"fmt"
)

// Torznab category convention: 2000 and its children are movies, 5000 and
// its children are TV.
const (
	categoryMovies = "2000"
	categoryTV     = "5000"
)

// Indexer is the per-search capability descriptor derived from the indexers
// listing. It is not persisted across search calls.
type Indexer struct {
	ID     string
	Title  string
	Movie  bool
	Series bool
}

// ParseError is raised when a torznab document does not have the expected
// structure. It carries the document kind for logging.
type ParseError struct {
	Doc string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s document: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type indexersDoc struct {
	XMLName  xml.Name      `xml:"indexers"`
	Indexers []indexerElem `xml:"indexer"`
}

type indexerElem struct {
	ID         string `xml:"id,attr"`
	Configured string `xml:"configured,attr"`
	Title      string `xml:"title"`
	Caps       struct {
		Categories struct {
			Categories []categoryElem `xml:"category"`
		} `xml:"categories"`
	} `xml:"caps"`
}

type categoryElem struct {
	ID string `xml:"id,attr"`
}

// capabilities collapses the category list into the movie/series support
// flags.
func (e indexerElem) capabilities() Indexer {
	idx := Indexer{ID: e.ID, Title: e.Title}
	for _, cat := range e.Caps.Categories.Categories {
		switch cat.ID {
		case categoryMovies:
			idx.Movie = true
		case categoryTV:
			idx.Series = true
		}
	}
	return idx
}

type rssDoc struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title     string    `xml:"title"`
	Link      string    `xml:"link"`
	MagnetURI string    `xml:"magneturl"`
	PubDate   string    `xml:"pubDate"`
	Attrs     []rssAttr `xml:"attr"`
}

type rssAttr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// attr returns the named torznab attribute value or "".
func (i rssItem) attr(name string) string {
	for _, a := range i.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

func parseIndexers(body []byte) ([]Indexer, error) {
	var doc indexersDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Doc: "indexers", Err: err}
	}

	indexers := make([]Indexer, 0, len(doc.Indexers))
	for _, elem := range doc.Indexers {
		if elem.ID == "" {
			continue
		}
		indexers = append(indexers, elem.capabilities())
	}
	return indexers, nil
}

func parseRSS(body []byte) ([]rssItem, error) {
	var doc rssDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Doc: "search", Err: err}
	}
	return doc.Channel.Items, nil
}
