package symphony

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

const ContextPrompt = "Please distill the following information into a clear, concise context document for brainstorming: %s"

const QuestionsPrompt = "Review this project information and generate %d-%d brainstorming questions to help develop it further: %s"

const SynthesizeQuestionsPrompt = "Synthesize these sets of questions into a single comprehensive list, eliminating duplication: %s"

const BrainstormPrompt = `You are Participant %d. Please answer the following brainstorming questions for this project. For each question, provide 3-5 unique responses:

%s`

const SynthesizeResponsesPrompt = `Synthesize these brainstorming responses into a cohesive document that preserves unique insights while aggregating similar ideas:

%s`

const noDocument = "No additional document provided"

type contextInput struct {
	XMLName  xml.Name `xml:"input"`
	Idea     string   `xml:"idea"`
	Document string   `xml:"document"`
}

type brainstormInput struct {
	XMLName   xml.Name               `xml:"input"`
	Context   string                 `xml:"context"`
	Topic     string                 `xml:"topic"`
	Questions []common.ChunkQuestion `xml:"questions>question"`
}

func toXML(v any) (string, error) {
	b, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func buildContextPrompt(in common.IdeaInput) (string, error) {
	doc := noDocument
	if in.DocumentContent != nil && strings.TrimSpace(*in.DocumentContent) != "" {
		doc = *in.DocumentContent
	}
	body, err := toXML(contextInput{Idea: in.IdeaText, Document: doc})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(ContextPrompt, body), nil
}

func buildQuestionsPrompt(ctx common.BrainstormingContext, r QuestionRange, round int) string {
	lo, hi := r.For(round)
	return fmt.Sprintf(QuestionsPrompt, lo, hi, ctx.Context)
}

func buildSynthesizeQuestionsPrompt(sets []common.BrainstormQuestions) (string, error) {
	parts := make([]string, 0, len(sets))
	for i, set := range sets {
		body, err := toXML(set)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("Question Set %d:\n%s", i+1, body))
	}
	return fmt.Sprintf(SynthesizeQuestionsPrompt, strings.Join(parts, "\n\n")), nil
}

func buildBrainstormPrompt(ctx common.BrainstormingContext, chunk common.QuestionChunk, participant int) (string, error) {
	body, err := toXML(brainstormInput{
		Context:   ctx.Context,
		Topic:     chunk.Heading,
		Questions: chunk.Questions,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(BrainstormPrompt, participant+1, body), nil
}

// FormatResponses renders every participant's answers as the attributed
// markdown block the final synthesis works from.
func FormatResponses(all [][]common.BrainstormResponse) string {
	blocks := make([]string, 0, len(all))
	for i, responses := range all {
		var b strings.Builder
		fmt.Fprintf(&b, "## Participant %d Responses\n\n", i+1)
		for _, r := range responses {
			fmt.Fprintf(&b, "### %s\n\n", r.Question)
			for _, a := range r.Answers {
				fmt.Fprintf(&b, "- %s\n", a)
			}
			b.WriteString("\n")
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func buildSynthesizeResponsesPrompt(all [][]common.BrainstormResponse) string {
	return fmt.Sprintf(SynthesizeResponsesPrompt, FormatResponses(all))
}
