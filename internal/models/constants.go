package models

const (
	// DefaultTopK is the number of chunks retrieved per query.
	DefaultTopK = 3

	SystemPrompt = "You are a helpful assistant. Use the provided context to answer the query. If the context does not contain the answer, say so."
)

var (
	AnswerPromptTemplate = `Context:
%s
Query: %s`
)
