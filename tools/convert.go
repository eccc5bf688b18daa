package tools

import (
	"github.com/cortexai/cortex/collab"
	"github.com/cortexai/cortex/model"
)

// chunksToCitations converts retriever hits into raw, unenhanced
// citations. RankPosition and ConfidenceScore are provisional — the
// citation enhancer re-derives both from the full confidence fusion
// formula; this conversion only needs to preserve enough information
// (content, scores, rank) for that pass to run.
func chunksToCitations(chunks []collab.RetrievedChunk) []model.Citation {
	citations := make([]model.Citation, 0, len(chunks))
	for i, c := range chunks {
		doc, page := splitDocumentID(c.ID, c.Metadata)
		citations = append(citations, model.Citation{
			Document:          doc,
			PageNumber:        page,
			Content:           c.Content,
			SimilarityScore:   c.SemanticScore,
			CrossEncoderScore: c.CrossEncoderScore,
			RankPosition:      i + 1,
			ConfidenceScore:   clamp01(c.SemanticScore),
			Metadata:          c.Metadata,
		})
	}
	return citations
}

func splitDocumentID(id string, metadata map[string]interface{}) (string, int) {
	doc := id
	page := 0
	if metadata != nil {
		if d, ok := metadata["document"].(string); ok && d != "" {
			doc = d
		}
		switch p := metadata["page_number"].(type) {
		case int:
			page = p
		case float64:
			page = int(p)
		}
	}
	return doc, page
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// topScoreConfidence derives a tool-level metadata.confidence from the
// retrieved chunks: the mean of up to the top 3 semantic scores,
// clamped into [0, 1]. This is the value read by the conditional-gating
// predicates and the answer-header logic downstream.
func topScoreConfidence(chunks []collab.RetrievedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	n := len(chunks)
	if n > 3 {
		n = 3
	}
	sum := 0.0
	for _, c := range chunks[:n] {
		sum += c.SemanticScore
	}
	return clamp01(sum / float64(n))
}

func contentsOf(chunks []collab.RetrievedChunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
