package main

import (
	"fmt"

	"github.com/cortexai/cortex/model"
)

// printResponse renders an AgenticResponse the way a terminal user would
// want to read it: the answer, its sources, and the reasoning trace.
func printResponse(resp model.AgenticResponse) {
	fmt.Println(resp.Answer)

	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, c := range resp.Sources {
			page := ""
			if c.PageNumber > 0 {
				page = fmt.Sprintf(" p.%d", c.PageNumber)
			}
			fmt.Printf("  [%d] %s%s (confidence %.2f)\n", c.RankPosition, c.Document, page, c.ConfidenceScore)
		}
	}

	fmt.Println("\nReasoning trace:")
	for _, t := range resp.ReasoningTrace {
		fmt.Printf("  - %s %v\n", t.Step, t.Fields)
	}
}
