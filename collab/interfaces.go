// Package collab declares the external collaborator interfaces the
// orchestration core depends on but does not implement: the document
// retriever, the language-model handler, the answer-synthesis chain,
// and the embedding model used for excerpt selection and citation
// dedup. Concrete implementations (a real vector database, a real LLM
// client) live outside this module; this package is the seam.
package collab

import "context"

// RetrievedChunk is one hit returned by a Retriever.
type RetrievedChunk struct {
	ID                string
	Content           string
	Metadata          map[string]interface{}
	SemanticScore     float64
	CrossEncoderScore float64 // 0 when no reranker was applied
}

// Retriever performs semantic and, optionally, keyword retrieval over
// the underlying document store.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]RetrievedChunk, error)

	// SemanticSearch and KeywordSearch let tools ask for a specific
	// retrieval mode; both return the same RetrievedChunk shape.
	SemanticSearch(ctx context.Context, query string, topK int) ([]RetrievedChunk, error)
	KeywordSearch(ctx context.Context, query string, topK int) ([]RetrievedChunk, error)

	// HasKeywordIndex reports whether KeywordSearch is backed by a real
	// keyword index (vs. falling back to semantic search).
	HasKeywordIndex() bool
}

// LLMHandler generates text from a prompt — used by the query analyzer
// for intent classification and by the orchestrator for the advisory
// model-based tool-selection fallback.
type LLMHandler interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// ChainResult is the answer-chain's output shape.
type ChainResult struct {
	Answer     string
	Sources    []string
	Confidence float64
}

// AnswerChain synthesizes a natural-language answer from retrieved
// documents, with specialized entry points for summarization and
// comparison tools.
type AnswerChain interface {
	ProcessQuery(ctx context.Context, query string, contextDocuments []string, history []string) (ChainResult, error)
	SummarizationChain(ctx context.Context, query string, docs []string) (ChainResult, error)
	ComparisonChain(ctx context.Context, query string, docs []string) (ChainResult, error)
}

// EmbeddingModel embeds text for cosine-similarity comparisons, used by
// the citation enhancer for excerpt sentence selection and
// near-duplicate citation detection.
type EmbeddingModel interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
