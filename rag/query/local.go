package query

import (
	"fmt"
	"time"

	"github.com/transitlab/graphrag/rag"
)

const localRedirect = `This appears to be a specific question about individual transport entities. For detailed routing and specific station/line information, I recommend using a retrieval approach optimized for entity lookups.

This engine specializes in analyzing overall network patterns, trends, and comprehensive transport system questions.

Your question: %q

Would you like to rephrase this as a broader transport network analysis question?`

// AnswerLocal returns the fixed redirect result for questions about a
// single entity. No communities are analyzed.
func AnswerLocal(question string, start time.Time) *rag.QueryResult {
	return &rag.QueryResult{
		Answer:        fmt.Sprintf(localRedirect, question),
		QuestionType:  rag.QuestionLocal,
		ExecutionTime: time.Since(start),
		Approach:      "local_redirect",
	}
}
