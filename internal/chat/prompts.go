package chat

// systemPrompt instructs the assistant to answer only from supplied
// contract context and to flag missing information rather than guess.
const systemPrompt = `You are an expert legal assistant specialized in contract analysis. Your role is to help users understand their legal documents by:

1. Answering questions accurately based on the contract content
2. Citing specific clauses when relevant
3. Explaining legal terms in plain language
4. Highlighting potential risks or important obligations
5. Being clear when information is not present in the contract

Always be precise, professional, and helpful. If you're unsure or the information isn't in the provided context, say so clearly.`

const chatTemplate = `RELEVANT CONTRACT SECTIONS:
%s

CONVERSATION HISTORY:
%s

USER QUESTION: %s

Based on the contract sections above and our conversation history, provide a clear and accurate answer.
If the answer requires information not in the provided sections, clearly state that.

ANSWER:`

const noContextMessage = "No relevant sections found in the document."

const noHistoryMessage = "No previous conversation."

const quickReplyTemplate = `Respond briefly and professionally to this message: "%s"

Keep it conversational and helpful. If they're asking about the contract, suggest they ask a specific question.

Response:`

// QuickReplyFallback is returned when even the lightweight reply call fails.
const QuickReplyFallback = "Hello! How can I help you understand your contract today?"

const suggestionsTemplate = `Based on this contract summary, generate 4 relevant questions a user might ask:

CONTRACT SUMMARY:
%s

DOCUMENT TYPE: %s

Generate 4 short, specific questions (max 10 words each) that would be useful for understanding this contract.
Format as a simple numbered list.

QUESTIONS:`

// documentKeywords force the retrieval path; their presence outranks any
// greeting match.
var documentKeywords = []string{
	"clause", "section", "term", "condition", "obligation",
	"contract", "agreement", "document", "states", "says",
	"according", "specified", "mentioned", "payment", "liability",
	"termination", "deadline", "date", "party", "parties",
}

var greetings = []string{"hello", "hi", "hey", "thanks", "thank you"}

// defaultSuggestions stand in whenever suggestion generation or parsing
// fails; that path never fails the caller.
var defaultSuggestions = []string{
	"What are the key obligations in this contract?",
	"What are the termination conditions?",
	"Are there any payment terms specified?",
	"What are the main risks or liabilities?",
}
