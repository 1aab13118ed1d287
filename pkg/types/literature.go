// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the manuscript-engine
// pipeline: literature metadata, extracted passages, workflow run records,
// and per-stage configuration.
package types

// ExtractionMethod identifies which strategy produced a metadata record.
type ExtractionMethod string

const (
	ExtractionFastLocal ExtractionMethod = "fast_local"
	ExtractionLLM       ExtractionMethod = "llm"
	ExtractionUnknown   ExtractionMethod = "unknown"
)

// LiteratureMetadata holds the extracted metadata for one source document
// plus the scoring fields a search pass bolts on. Scoring fields are zero
// until the document has been ranked against a keyword set.
type LiteratureMetadata struct {
	// Title is the document title, or the file stem when no title line was found.
	Title string `json:"title" yaml:"title"`

	// Authors lists the document authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the abstract text, or leading body text when no marker was found.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Keywords are the author-declared keywords, when present.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Year is the four-digit publication year as found in the text. Not
	// validated as numeric.
	Year string `json:"year" yaml:"year"`

	// FilePath is the source document path.
	FilePath string `json:"file_path" yaml:"file_path"`

	// ExtractionTime is the RFC 3339 timestamp of the extraction.
	ExtractionTime string `json:"extraction_time" yaml:"extraction_time"`

	// ExtractionMethod records which strategy produced this record.
	ExtractionMethod ExtractionMethod `json:"extraction_method" yaml:"extraction_method"`

	// MatchScore is the fraction of expanded keywords matched as whole words.
	MatchScore float64 `json:"match_score" yaml:"match_score"`

	// TFIDFScore is the additive TF-IDF score over keyword tokens. Unbounded above.
	TFIDFScore float64 `json:"tfidf_score" yaml:"tfidf_score"`

	// CombinedScore is 0.6*MatchScore + 0.4*TFIDFScore.
	CombinedScore float64 `json:"combined_score" yaml:"combined_score"`

	// MatchedKeywords lists the expanded keywords found in the document.
	MatchedKeywords []string `json:"matched_keywords" yaml:"matched_keywords"`

	// TitleMatches counts expanded keywords appearing in the title.
	TitleMatches int `json:"title_matches" yaml:"title_matches"`

	// AbstractMatches counts expanded keywords appearing in the abstract.
	AbstractMatches int `json:"abstract_matches" yaml:"abstract_matches"`

	// TotalKeywordsChecked is the size of the expanded keyword set scored against.
	TotalKeywordsChecked int `json:"total_keywords_checked" yaml:"total_keywords_checked"`
}

// Passage is a short excerpt selected from a ranked document. Passages are
// transient: they are produced per run and never cached.
type Passage struct {
	// Text is the excerpt, truncated to 300 characters.
	Text string `json:"text" yaml:"text"`

	// SourceTitle is the title of the document the passage came from.
	SourceTitle string `json:"source_title" yaml:"source_title"`

	// SourceAuthors lists the source document's authors.
	SourceAuthors []string `json:"source_authors" yaml:"source_authors"`

	// SourceYear is the source document's publication year.
	SourceYear string `json:"source_year" yaml:"source_year"`

	// RelevanceScore is in [0,1]: model-provided on the LLM path, keyword
	// hit fraction on the fallback path.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// RelatedKeywords lists the keywords the passage was selected for.
	RelatedKeywords []string `json:"related_keywords" yaml:"related_keywords"`

	// Citation is the formatted author-year citation string.
	Citation string `json:"citation" yaml:"citation"`

	// SourceFile is the source document path.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// CombinedScore is copied from the parent literature record.
	CombinedScore float64 `json:"combined_score" yaml:"combined_score"`
}

// WorkflowResult is the persisted record of one manuscript-polish run.
type WorkflowResult struct {
	// Timestamp is the RFC 3339 start time of the run.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// InputManuscript is the manuscript path or title the run started from.
	InputManuscript string `json:"input_manuscript" yaml:"input_manuscript"`

	// LiteratureDirectory is the directory that was searched.
	LiteratureDirectory string `json:"literature_directory" yaml:"literature_directory"`

	// GeneratedKeywords are the search keywords used for retrieval.
	GeneratedKeywords []string `json:"generated_keywords" yaml:"generated_keywords"`

	// MatchedLiteratureCount is the number of documents that passed the
	// relevance threshold.
	MatchedLiteratureCount int `json:"matched_literature_count" yaml:"matched_literature_count"`

	// RelevantPassagesCount is the number of passages selected.
	RelevantPassagesCount int `json:"relevant_passages_count" yaml:"relevant_passages_count"`

	// OutputManuscript is the path of the optimized manuscript file.
	OutputManuscript string `json:"output_manuscript" yaml:"output_manuscript"`

	// PreprocessingEnabled records whether the metadata cache was warmed first.
	PreprocessingEnabled bool `json:"preprocessing_enabled" yaml:"preprocessing_enabled"`

	// MatchedLiterature holds the ranked literature records.
	MatchedLiterature []LiteratureMetadata `json:"matched_literature" yaml:"matched_literature"`

	// RelevantPassages holds the selected passages.
	RelevantPassages []Passage `json:"relevant_passages" yaml:"relevant_passages"`
}

// Reference is one entry in the references.yaml export: the literature a
// polished manuscript actually drew on, in citable form.
type Reference struct {
	// CitationKey is a short AuthorYear key (e.g. "Smith2021").
	CitationKey string `json:"citation_key" yaml:"citation_key"`

	// Title is the referenced document's title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the referenced document's authors.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year as extracted.
	Year string `json:"year" yaml:"year"`

	// FilePath is the local source document.
	FilePath string `json:"file_path" yaml:"file_path"`

	// CombinedScore is the relevance ranking score from the search pass.
	CombinedScore float64 `json:"combined_score" yaml:"combined_score"`
}

// ReferencesFile is the on-disk shape of the references.yaml export.
type ReferencesFile struct {
	Manuscript string      `json:"manuscript" yaml:"manuscript"`
	References []Reference `json:"references" yaml:"references"`
}
