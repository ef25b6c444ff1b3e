package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Field names of the indexed document.
const (
	fieldTerms    = "terms"
	fieldPhrases  = "phrases"
	fieldName     = "name"
	fieldPageRank = "page_rank"
	fieldPayload  = "payload"
)

// indexDoc is the unit of retrieval stored in bleve. Terms and phrases are
// pre-tokenized by the Place, so both fields use the keyword analyzer: one
// array element, one index key.
type indexDoc struct {
	Terms    []string `json:"terms"`
	Phrases  []string `json:"phrases"`
	Name     string   `json:"name"`
	PageRank float64  `json:"page_rank"`
	Payload  string   `json:"payload"`
}

func buildMapping() mapping.IndexMapping {
	termField := bleve.NewTextFieldMapping()
	termField.Analyzer = keyword.Name
	termField.Store = false
	termField.IncludeTermVectors = true

	phraseField := bleve.NewTextFieldMapping()
	phraseField.Analyzer = keyword.Name
	phraseField.Store = false
	phraseField.IncludeTermVectors = true

	storedText := bleve.NewTextFieldMapping()
	storedText.Index = false
	storedText.Store = true
	storedText.IncludeInAll = false

	rankField := bleve.NewNumericFieldMapping()
	rankField.Index = false
	rankField.Store = true
	rankField.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldTerms, termField)
	doc.AddFieldMappingsAt(fieldPhrases, phraseField)
	doc.AddFieldMappingsAt(fieldName, storedText)
	doc.AddFieldMappingsAt(fieldPageRank, rankField)
	doc.AddFieldMappingsAt(fieldPayload, storedText)

	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = keyword.Name
	im.DefaultMapping = doc
	return im
}
