package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/domain/commonModels"
)

const suggestionSummaryLimit = 1000

// SuggestQuestions proposes up to four questions a user might ask about the
// document. Any failure along the way resolves to the fixed default list;
// this path never fails the caller.
func (e *engine) SuggestQuestions(ctx context.Context, documentSummary string, clauses []commonModels.Clause) []string {
	summary := documentSummary
	if len(summary) > suggestionSummaryLimit {
		summary = summary[:suggestionSummaryLimit]
	}

	prompt := fmt.Sprintf(suggestionsTemplate, summary, ContractType(clauses))

	response, err := e.llm.Generate(ctx, "", prompt)
	if err != nil {
		e.logger.Warn("suggestion generation failed, using defaults", "error", err)
		return defaultSuggestions
	}

	questions := parseNumberedList(response)
	if len(questions) == 0 {
		return defaultSuggestions
	}
	return questions
}

// parseNumberedList extracts questions from a numbered or dashed list,
// capped at MaxSuggestions.
func parseNumberedList(response string) []string {
	var questions []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		cleaned := strings.TrimSpace(line)
		if cleaned == "" {
			continue
		}
		if cleaned[0] >= '0' && cleaned[0] <= '9' || strings.HasPrefix(cleaned, "-") {
			question := strings.TrimSpace(strings.TrimLeft(cleaned, "0123456789.-) "))
			if question != "" {
				questions = append(questions, question)
			}
		}
		if len(questions) == config.MaxSuggestions {
			break
		}
	}
	return questions
}

// ContractType infers a coarse document type from clause category counts.
func ContractType(clauses []commonModels.Clause) string {
	if len(clauses) == 0 {
		return "general contract"
	}

	categories := make(map[string]int)
	for _, clause := range clauses {
		categories[clause.Category]++
	}

	switch {
	case categories["Employment"] > 2:
		return "employment contract"
	case categories["Payment"] > 2 || categories["Pricing"] > 1:
		return "service agreement"
	case categories["Confidentiality"] > 1:
		return "NDA or confidentiality agreement"
	case categories["IP"] > 1 || categories["License"] > 1:
		return "licensing agreement"
	default:
		return "legal contract"
	}
}
