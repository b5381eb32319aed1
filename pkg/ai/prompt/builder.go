package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SocialPostCount is the number of posts the social strategist is asked for.
const SocialPostCount = 5

// ResearchTools names the tools available to one research run.
type ResearchTools struct {
	DocumentSearch string // empty when no document was uploaded
	WebSearch      string
}

// Researcher builds the research agent's system prompt. The document
// search step is only present when a document tool exists.
func Researcher(idea string, tools ResearchTools) string {
	var b strings.Builder
	fmt.Fprintf(&b, researcherIntro, idea)

	next := 3
	if tools.DocumentSearch != "" {
		fmt.Fprintf(&b, researcherDocumentStep, tools.DocumentSearch, idea, tools.WebSearch)
		next = 4
	} else {
		fmt.Fprintf(&b, researcherWebOnlyStep, tools.WebSearch, idea)
	}
	fmt.Fprintf(&b, researcherOutro, next, next+1)
	return b.String()
}

func ResearcherUser(idea string) string {
	return fmt.Sprintf(ResearcherUserTurn, idea)
}

func CopywriterPrompt(report string) string {
	return fmt.Sprintf(Copywriter, report)
}

func AdCopyPrompt(report string) string {
	return fmt.Sprintf(AdCopy, report)
}

func SocialPrompt(report string) string {
	return fmt.Sprintf(SocialStrategist, SocialPostCount, report)
}

// SchedulerPrompt lays out one calendar day per post.
func SchedulerPrompt(posts []string) string {
	list, _ := json.MarshalIndent(posts, "", "  ")
	return fmt.Sprintf(Scheduler, len(posts), len(posts), string(list))
}
