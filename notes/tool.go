package notes

import (
	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/ollama/ollama/api"
)

const (
	RetrieveToolName = "retrieve_relevant_chunks"

	defaultTopK = 3
	maxTopK     = 10
)

// RetrieveTool is the only tool the QA model may call.
func RetrieveTool() api.Tool {
	return llm.NewToolBuilder(RetrieveToolName, "Search the medical transcript for relevant context for a user query").
		StringParam("query", "User's question to be answered from the transcript", true).
		IntegerParam("top_k", "Number of most relevant transcript chunks to retrieve (default 3)", false).
		StringParam("appointment_id", "The appointment ID used to filter transcript data.", true).
		Build()
}

func clampTopK(k int) int {
	if k < 1 {
		return defaultTopK
	}
	return min(k, maxTopK)
}
