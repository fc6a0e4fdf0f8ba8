package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptsEmbedInputs(t *testing.T) {
	assert.Contains(t, GenerateDomainPrompt("  Build Go services  "), "Job Description:\nBuild Go services\n")

	hr := GenerateHREvaluationPrompt("Why us?", "Because.")
	assert.Contains(t, hr, "Question: Why us?\n")
	assert.Contains(t, hr, "Answer: Because.\n")
	assert.Contains(t, hr, "Confidence Level: <Low, Medium, High>")

	gen := GenerateTechnicalQuestionsPrompt("DevOps", 7)
	assert.Contains(t, gen, "Generate 7 unique")
	assert.Contains(t, gen, "'DevOps'")

	tech := GenerateTechnicalEvaluationPrompt("What is a pod?", "A group of containers.", "DevOps")
	assert.Contains(t, tech, "Domain: DevOps\n")
	assert.Contains(t, tech, "Candidate's Answer: A group of containers.\n")
	assert.Contains(t, tech, "Score: 7/10")
}
