package commonModels

type DocType string

const (
	IMAGE       DocType = "IMAGE"
	PDF         DocType = "PDF"
	WORD        DocType = "WORD"
	SPREADSHEET DocType = "SPREADSHEET"
	CSV         DocType = "CSV"
	TXT         DocType = "TXT"
)

// ProcessedDocument is what an extraction strategy hands to the chunker
type ProcessedDocument struct {
	Text     string      `json:"text"`
	Type     DocType     `json:"type"`
	Metadata DocMetadata `json:"metadata"`
}

type DocMetadata struct {
	PageCount *int `json:"pageCount,omitempty"` //only pdf knows its pages
	WordCount int  `json:"wordCount"`
	CharCount int  `json:"charCount"`
}

type Chunk struct {
	Content  string        `json:"content"`
	Index    int           `json:"index"`
	Metadata ChunkMetadata `json:"metadata"`
}

// offsets are rune positions in the normalized text
type ChunkMetadata struct {
	StartChar int `json:"startChar"`
	EndChar   int `json:"endChar"`
	WordCount int `json:"wordCount"`
}
