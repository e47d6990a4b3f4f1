package wizard

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/symphony/pkg/common"
)

func renderQuestions(q common.BrainstormQuestions) string {
	var b strings.Builder
	for i, g := range q.QuestionGroups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleHeading.Render(g.Heading))
		b.WriteString("\n")
		for _, question := range g.Questions {
			fmt.Fprintf(&b, "  %s %s\n", styleBold.Render(question.ShortSummary+":"), question.FullDescription)
		}
	}
	return b.String()
}

func renderQuestionSets(sets []common.BrainstormQuestions) string {
	if len(sets) == 1 {
		return styleTitle.Render("Generated Questions") + "\n\n" + renderQuestions(sets[0])
	}
	var b strings.Builder
	for i, set := range sets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleTitle.Render(fmt.Sprintf("Question Set %d", i+1)))
		b.WriteString("\n\n")
		b.WriteString(renderQuestions(set))
	}
	return b.String()
}

// topicIndex maps question IDs and short summaries to their chunk heading.
func topicIndex(chunks []common.QuestionChunk) map[string]string {
	idx := map[string]string{}
	for _, c := range chunks {
		for _, q := range c.Questions {
			if q.ID != "" {
				idx["id:"+q.ID] = c.Heading
			}
			idx["q:"+q.ShortSummary] = c.Heading
		}
	}
	return idx
}

func renderResponses(chunks []common.QuestionChunk, all [][]common.BrainstormResponse) string {
	topics := topicIndex(chunks)
	var b strings.Builder
	for i, participant := range all {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleTitle.Render(fmt.Sprintf("Participant %d", i+1)))
		b.WriteString("\n")

		current := ""
		for _, r := range participant {
			topic, ok := topics["id:"+r.QuestionID]
			if !ok {
				topic = topics["q:"+r.Question]
			}
			if topic != "" && topic != current {
				b.WriteString(styleHeading.Render(topic))
				b.WriteString("\n")
				current = topic
			}
			fmt.Fprintf(&b, "  %s\n", styleBold.Render(r.Question))
			for _, a := range r.Answers {
				fmt.Fprintf(&b, "    - %s\n", a)
			}
		}
	}
	return b.String()
}

// parseAnswers splits multi-line input into one answer per line. A leading
// "- " bullet is removed and bullet-only lines are skipped.
func parseAnswers(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = stripBullet(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripBullet trims s and removes a leading list marker. "-5 degrees" keeps
// its sign; only "-" alone or followed by whitespace counts as a marker.
func stripBullet(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	if rest, ok := strings.CutPrefix(s, "-"); ok && rest != strings.TrimLeft(rest, " \t") {
		return strings.TrimSpace(rest)
	}
	return s
}
