package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/transitlab/graphrag/rag"
)

func TestClassify(t *testing.T) {
	router := NewRouter()

	cases := []struct {
		name     string
		question string
		want     rag.QuestionType
	}{
		{
			name:     "network wide question",
			question: "What were the main trends in the overall network development?",
			want:     rag.QuestionGlobal,
		},
		{
			name:     "east west comparison",
			question: "Compare the differences between East and West Berlin transport coverage",
			want:     rag.QuestionGlobal,
		},
		{
			name:     "single station",
			question: "When did the station Alexanderplatz open?",
			want:     rag.QuestionLocal,
		},
		{
			name:     "journey planning",
			question: "How to get from Zoologischer Garten to Alexanderplatz?",
			want:     rag.QuestionLocal,
		},
		{
			name:     "no indicators defaults to local",
			question: "Tell me something interesting",
			want:     rag.QuestionLocal,
		},
		{
			name: "strong global signal outweighs local mentions",
			question: "What patterns of political division shaped the network system " +
				"around each station and line?",
			want: rag.QuestionGlobal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, router.Classify(tc.question))
		})
	}
}

func TestClassifyThreshold(t *testing.T) {
	// Equal scores on both sides, but the global score reaches the
	// configured threshold.
	question := "Which specific station and line changes drove the network system?"

	strict := NewRouter(rag.WithGlobalQuestionThreshold(10))
	assert.Equal(t, rag.QuestionLocal, strict.Classify(question))

	relaxed := NewRouter(rag.WithGlobalQuestionThreshold(3))
	assert.Equal(t, rag.QuestionGlobal, relaxed.Classify(question))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	router := NewRouter()
	assert.Equal(t, rag.QuestionGlobal,
		router.Classify("COMPARE THE OVERALL NETWORK TRENDS"))
}
