package common

import "encoding/xml"

// IdeaInput is the raw idea a user brings to a brainstorming session,
// optionally accompanied by the text of a supporting document.
type IdeaInput struct {
	IdeaText        string  `json:"idea_text" validate:"required"`
	DocumentContent *string `json:"document_content,omitempty"`
}

// BrainstormingContext is the distilled context document every later
// stage works from. A human may edit it before it is passed on.
type BrainstormingContext struct {
	Context string `json:"context" validate:"required"`
}

// BrainstormQuestion is a single clarifying question. ID is assigned when
// the question is generated and is the key used to attach answers to it.
type BrainstormQuestion struct {
	ID              string `json:"id,omitempty" xml:"id,attr,omitempty"`
	ShortSummary    string `json:"short_summary" xml:"short_summary" validate:"required"`
	FullDescription string `json:"full_description" xml:"full_description"`
}

// BrainstormQuestionGroup clusters related questions under a heading.
type BrainstormQuestionGroup struct {
	Heading   string               `json:"heading" xml:"heading" validate:"required"`
	Questions []BrainstormQuestion `json:"questions" xml:"question" validate:"dive"`
}

// BrainstormQuestions is a complete, ordered set of question groups.
type BrainstormQuestions struct {
	XMLName        xml.Name                  `json:"-" xml:"question_set"`
	QuestionGroups []BrainstormQuestionGroup `json:"question_groups" xml:"question_group" validate:"dive"`
}

// QuestionCount returns the number of questions across all groups.
func (q BrainstormQuestions) QuestionCount() int {
	count := 0
	for _, g := range q.QuestionGroups {
		count += len(g.Questions)
	}
	return count
}

// ChunkQuestion is the flattened form of a question inside a QuestionChunk.
type ChunkQuestion struct {
	ID              string `json:"id" xml:"id,attr"`
	ShortSummary    string `json:"short_summary" xml:"short_summary" validate:"required"`
	FullDescription string `json:"full_description" xml:"full_description"`
}

// QuestionChunk is the unit of work for the brainstorming stage: one
// topic heading and the questions filed under it.
type QuestionChunk struct {
	Heading   string          `json:"heading" validate:"required"`
	Questions []ChunkQuestion `json:"questions" validate:"dive"`
}

// BrainstormResponse holds the answers one participant gave to a question.
// QuestionID refers to the ID of the answered question; Question repeats
// its short summary for readability.
type BrainstormResponse struct {
	QuestionID string   `json:"question_id,omitempty"`
	Question   string   `json:"question" validate:"required"`
	Answers    []string `json:"answers"`
}

// BrainstormSynthesis is the final document of a session. AttributedContent
// keeps per-participant attribution and may be absent.
type BrainstormSynthesis struct {
	SynthesizedContent string  `json:"synthesized_content" validate:"required"`
	AttributedContent  *string `json:"attributed_content,omitempty"`
}
