package main

import (
	"context"
	"sort"
	"strings"

	"github.com/cortexai/cortex/collab"
)

// demoChunk is one entry in the in-memory document store the demo
// retriever searches. It stands in for a real vector/keyword index.
type demoChunk struct {
	id       string
	document string
	page     int
	content  string
}

// demoRetriever is a tiny in-memory collab.Retriever: semantic "search"
// is word-overlap scoring against a fixed seed corpus, keyword search
// keeps chunks that contain the whole query or share a query term, and
// both drop hits whose overlap score is zero. It exists so `cortex ask` has something to
// retrieve against out of the box, not as a model for a production
// retriever.
type demoRetriever struct {
	chunks []demoChunk
}

func newDemoRetriever() *demoRetriever {
	return &demoRetriever{chunks: seedCorpus()}
}

func seedCorpus() []demoChunk {
	return []demoChunk{
		{id: "policy#1", document: "employee-handbook.md", page: 1, content: "Employees may work remotely up to three days per week with manager approval. Remote work requests should be submitted two weeks in advance."},
		{id: "policy#2", document: "employee-handbook.md", page: 2, content: "The remote work policy applies to all full-time staff after their first ninety days of employment."},
		{id: "policy#3", document: "travel-policy.md", page: 1, content: "Travel expenses above $500 require director approval before booking. Economy class is standard for flights under six hours."},
		{id: "policy#4", document: "security-policy.md", page: 1, content: "All laptops must have full-disk encryption enabled and a password manager installed before being used for remote work."},
	}
}

func (r *demoRetriever) Retrieve(ctx context.Context, query string, topK int) ([]collab.RetrievedChunk, error) {
	return r.SemanticSearch(ctx, query, topK)
}

func (r *demoRetriever) SemanticSearch(ctx context.Context, query string, topK int) ([]collab.RetrievedChunk, error) {
	terms := queryTerms(query)

	scored := make([]collab.RetrievedChunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		score := overlapScore(terms, c.content)
		scored = append(scored, collab.RetrievedChunk{
			ID:            c.id,
			Content:       c.content,
			SemanticScore: score,
			Metadata: map[string]interface{}{
				"document":    c.document,
				"page_number": c.page,
			},
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].SemanticScore > scored[j].SemanticScore })
	return topN(scored, topK), nil
}

func (r *demoRetriever) KeywordSearch(ctx context.Context, query string, topK int) ([]collab.RetrievedChunk, error) {
	lower := strings.ToLower(query)
	matched := make([]collab.RetrievedChunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if !strings.Contains(strings.ToLower(c.content), lower) && overlapScore(queryTerms(query), c.content) == 0 {
			continue
		}
		matched = append(matched, collab.RetrievedChunk{
			ID:            c.id,
			Content:       c.content,
			SemanticScore: overlapScore(queryTerms(query), c.content),
			Metadata: map[string]interface{}{
				"document":    c.document,
				"page_number": c.page,
			},
		})
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].SemanticScore > matched[j].SemanticScore })
	return topN(matched, topK), nil
}

func (r *demoRetriever) HasKeywordIndex() bool { return true }

func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'")
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

func overlapScore(terms []string, content string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	hits := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}

func topN(chunks []collab.RetrievedChunk, n int) []collab.RetrievedChunk {
	if n <= 0 || n > len(chunks) {
		n = len(chunks)
	}
	out := chunks[:0:0]
	for _, c := range chunks[:n] {
		if c.SemanticScore > 0 {
			out = append(out, c)
		}
	}
	return out
}

// demoChain is a trivial collab.AnswerChain: it joins the supplied
// context documents into a flat answer rather than calling a real
// language model, so `cortex ask` is runnable with zero external
// dependencies. A real deployment wires an LLM-backed chain through the
// same interface.
type demoChain struct{}

func (demoChain) ProcessQuery(ctx context.Context, query string, docs []string, history []string) (collab.ChainResult, error) {
	if len(docs) == 0 {
		return collab.ChainResult{}, nil
	}
	return collab.ChainResult{
		Answer:     "Based on the retrieved documents: " + strings.Join(docs, " "),
		Sources:    docs,
		Confidence: 0.75,
	}, nil
}

func (demoChain) SummarizationChain(ctx context.Context, query string, docs []string) (collab.ChainResult, error) {
	if len(docs) == 0 {
		return collab.ChainResult{}, nil
	}
	return collab.ChainResult{
		Answer:     "Summary: " + strings.Join(docs, " "),
		Sources:    docs,
		Confidence: 0.7,
	}, nil
}

func (demoChain) ComparisonChain(ctx context.Context, query string, docs []string) (collab.ChainResult, error) {
	if len(docs) == 0 {
		return collab.ChainResult{}, nil
	}
	return collab.ChainResult{
		Answer:     "Comparison: " + strings.Join(docs, " "),
		Sources:    docs,
		Confidence: 0.7,
	}, nil
}
