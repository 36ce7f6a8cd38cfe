package summarize

// Prompt texts for the two summarization tiers. Kept in one place so prompt
// changes bump config.PromptVersion alongside.

const clauseSystemPrompt = `You are an expert legal analyst. You summarize individual contract clauses precisely and concisely.`

const clausePromptTemplate = `Summarize the TARGET CLAUSE below.

CONTEXT INFORMATION:
The surrounding clauses are provided only for disambiguation; do NOT summarize them.

--- BEGIN CONTEXT ---
PREVIOUS CLAUSE: %s
NEXT CLAUSE: %s
RELATED CLAUSES: %s
--- END CONTEXT ---

TARGET CLAUSE:
"%s"

INSTRUCTIONS:
1. One concise sentence capturing the obligation/right/definition.
2. If boilerplate, state that briefly.
3. Avoid lead-ins like "The clause states that...".

Summary:`

// noneSentinel stands in for a missing neighbor at the document edges.
const noneSentinel = "None"

const chunkSystemPrompt = `You are an expert legal analyst. You produce concise, factual summaries of contract text.`

const chunkPromptTemplate = `Summarize the following contract excerpt concisely. Capture key terms, dates, figures and obligations. Do not invent information that is not present.

EXCERPT:
%s

Summary:`

const mergeSystemPrompt = `You are a Senior Legal Partner writing an executive summary for a client.`

const mergePromptTemplate = `Based on the section summaries below, write an Executive Summary of the whole agreement.

SECTION SUMMARIES:
%s

FORMAT:
- **Core Purpose**: what the agreement covers
- **Key Terms**: the principal terms, figures and obligations
- **Critical Risks**: liabilities, termination and dispute handling

Executive Summary:`

// Fixed fallback strings. These are user-visible placeholders, never errors.
const (
	ClauseFallbackMessage   = "Summary unavailable due to processing error."
	TooShortMessage         = "The document does not contain enough text to summarize."
	DocumentFailureMessage  = "Document summary unavailable due to processing error."
)
