package citation

import (
	"context"
	"sort"

	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

const (
	defaultMinConfidence  = 0.3
	defaultDedupThreshold = 0.9
)

// Enhancer extracts relevance-weighted excerpts and computes composite
// confidence per citation.
type Enhancer struct {
	embedder       collab.EmbeddingModel
	minConfidence  float64
	dedupThreshold float64
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithMinConfidence overrides the default 0.3 confidence filter floor.
func WithMinConfidence(v float64) Option { return func(e *Enhancer) { e.minConfidence = v } }

// WithDedupThreshold overrides the default 0.9 cosine dedup threshold.
func WithDedupThreshold(v float64) Option { return func(e *Enhancer) { e.dedupThreshold = v } }

// NewEnhancer creates a citation enhancer. embedder may be nil, in which
// case excerpt extraction falls back to boundary truncation and
// deduplication falls back to exact (document, page_number) matching.
func NewEnhancer(embedder collab.EmbeddingModel, opts ...Option) *Enhancer {
	e := &Enhancer{
		embedder:       embedder,
		minConfidence:  defaultMinConfidence,
		dedupThreshold: defaultDedupThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToolCitations pairs a tool's raw citations with that tool's
// metadata.confidence — the tool-confidence term of the fusion formula
// is per contributing tool, not per citation.
type ToolCitations struct {
	Citations  []model.Citation
	Confidence float64
}

// Enhance runs the full pipeline: excerpt extraction, confidence fusion,
// re-rank, filter, dedup, against every successful tool's citations.
func (e *Enhancer) Enhance(ctx context.Context, query string, toolCitations []ToolCitations) []model.Citation {
	var enhanced []model.Citation

	for _, tc := range toolCitations {
		for _, c := range tc.Citations {
			c.Excerpt = extractExcerpt(ctx, c.Content, query, e.embedder)
			c.ConfidenceScore = fuseConfidence(c.SimilarityScore, c.RankPosition, tc.Confidence, c.CrossEncoderScore)
			enhanced = append(enhanced, c)
		}
	}

	enhanced = rerank(enhanced)
	enhanced = filterByConfidence(enhanced, e.minConfidence)
	enhanced = e.deduplicate(ctx, enhanced)
	enhanced = rerank(enhanced)

	return enhanced
}

// rerank sorts descending by confidence and re-assigns RankPosition
// starting at 1.
func rerank(citations []model.Citation) []model.Citation {
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].ConfidenceScore > citations[j].ConfidenceScore
	})
	for i := range citations {
		citations[i].RankPosition = i + 1
	}
	return citations
}

// filterByConfidence drops citations below min.
func filterByConfidence(citations []model.Citation, min float64) []model.Citation {
	out := citations[:0:0]
	for _, c := range citations {
		if c.ConfidenceScore >= min {
			out = append(out, c)
		}
	}
	return out
}

// deduplicate drops citations whose content embedding is within the
// dedup threshold of an already-accepted citation. Without
// an embedder, it falls back to exact (document, page_number) identity.
func (e *Enhancer) deduplicate(ctx context.Context, citations []model.Citation) []model.Citation {
	if e.embedder == nil {
		return dedupByKey(citations)
	}

	accepted := make([]model.Citation, 0, len(citations))
	acceptedVecs := make([][]float64, 0, len(citations))

	for _, c := range citations {
		vec, err := e.embedder.Embed(ctx, c.Content)
		if err != nil {
			accepted = append(accepted, c)
			acceptedVecs = append(acceptedVecs, nil)
			continue
		}

		isDup := false
		for _, av := range acceptedVecs {
			if av == nil {
				continue
			}
			if cosineSimilarity(vec, av) >= e.dedupThreshold {
				isDup = true
				break
			}
		}
		if !isDup {
			accepted = append(accepted, c)
			acceptedVecs = append(acceptedVecs, vec)
		}
	}

	return accepted
}

func dedupByKey(citations []model.Citation) []model.Citation {
	seen := make(map[model.CitationKey]bool, len(citations))
	out := make([]model.Citation, 0, len(citations))
	for _, c := range citations {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// GroupByDocument buckets citations by document name, sorting each
// bucket by (page_number, rank_position) ascending.
func GroupByDocument(citations []model.Citation) map[string][]model.Citation {
	groups := make(map[string][]model.Citation)
	for _, c := range citations {
		groups[c.Document] = append(groups[c.Document], c)
	}
	for doc := range groups {
		bucket := groups[doc]
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].PageNumber != bucket[j].PageNumber {
				return bucket[i].PageNumber < bucket[j].PageNumber
			}
			return bucket[i].RankPosition < bucket[j].RankPosition
		})
		groups[doc] = bucket
	}
	return groups
}
