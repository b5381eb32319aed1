package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const idea = "A smart dog collar that translates barks into English."

func TestResearcherWithDocumentTool(t *testing.T) {
	p := Researcher(idea, ResearchTools{DocumentSearch: "product_document_search", WebSearch: "tavily_search_results_json"})

	assert.Contains(t, p, "product_document_search")
	assert.Contains(t, p, "tavily_search_results_json")
	assert.Contains(t, p, idea)
	assert.Contains(t, p, "4. **Synthesize")
	assert.Contains(t, p, `"Target Audience", "Key Selling Points" and "Main Competitors"`)
}

func TestResearcherWithoutDocumentTool(t *testing.T) {
	p := Researcher(idea, ResearchTools{WebSearch: "tavily_search_results_json"})

	assert.NotContains(t, p, "product_document_search")
	assert.NotContains(t, p, "Private Documents")
	assert.Contains(t, p, "3. **Synthesize")
}

func TestStagePromptsInterpolateReport(t *testing.T) {
	report := "Target Audience: busy dog owners"
	for _, p := range []string{CopywriterPrompt(report), AdCopyPrompt(report), SocialPrompt(report)} {
		assert.Contains(t, p, report)
	}
	assert.Contains(t, SocialPrompt(report), "list of 5 engaging")
}

func TestSchedulerPromptSizesCalendar(t *testing.T) {
	p := SchedulerPrompt([]string{"Meet Barky", "Woof means hi"})

	assert.Contains(t, p, "2-day content calendar")
	assert.Contains(t, p, `"Day 1" to "Day 2"`)
	assert.Contains(t, p, `"Woof means hi"`)
}
