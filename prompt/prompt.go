// Package prompt builds the final LLM prompt from the question, optional
// scheme details, and web search snippets.
//
// Build is a pure function: same inputs, same prompt. Optional sections are
// omitted entirely when their inputs are absent, so the prompt never carries
// a dangling label.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/janmitra/yojana/scheme"
	"github.com/janmitra/yojana/websearch"
)

const instructions = `Please provide a clear, conversational response that:
1. Directly addresses the question using all available information
2. Highlights key benefits and eligibility criteria if applicable
3. Uses simple, easy-to-understand language
4. Includes specific examples where helpful
5. Maintains cultural context and sensitivity
6. Includes application process and requirements
7. Provides relevant portal links for application
8. Cites sources when using information from web search results
9. You must give schemes if they ask it is mandatory
If no scheme information is directly relevant, provide a helpful general response based on the available information.`

// ExtractionPrompt returns the entity-extraction prompt for a question.
func ExtractionPrompt(question string) string {
	return "Extract only the government scheme name from this question, if any: " + question
}

// Build assembles the answer-generation prompt. schemeDetails may be nil and
// searchResults may be empty; both sections are skipped cleanly.
func Build(question string, schemeDetails *scheme.Details, searchResults []websearch.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "As an AI assistant specializing in government schemes and policies, help with the following question: %s\n\n", question)

	if schemeDetails != nil {
		serialized, err := json.Marshal(schemeDetails)
		if err == nil {
			fmt.Fprintf(&sb, "Scheme details:\n%s\n\n", serialized)
		}
	}

	if len(searchResults) > 0 {
		sb.WriteString("Additional information from web search:\n")
		for i, result := range searchResults {
			fmt.Fprintf(&sb, "Source %d:\nTitle: %s\nSummary: %s\n\n", i+1, result.Title, result.Snippet)
		}
	}

	sb.WriteString(instructions)
	return sb.String()
}
