package prompts

import (
	"fmt"
	"strings"
)

// Системные роли для каждого вызова модели
const (
	DomainSystem         = "You are an expert technical recruiter who classifies job descriptions."
	HRSystem             = "You are an expert HR evaluator."
	TechGenerationSystem = "You are a helpful assistant that generates technical interview questions."
	TechEvaluationSystem = "You are a technical interview evaluator."
)

// GenerateDomainPrompt строит промпт определения домена по описанию вакансии
func GenerateDomainPrompt(jobDescription string) string {
	var prompt strings.Builder

	prompt.WriteString("Identify the primary technical domain of the following job description.\n")
	prompt.WriteString("Answer with a short domain label only (for example: Data Science, Web Development, DevOps, ")
	prompt.WriteString("Machine Learning, Cybersecurity, Mobile Development).\n")
	prompt.WriteString("Do not include any explanation or punctuation.\n\n")
	prompt.WriteString(fmt.Sprintf("Job Description:\n%s\n", strings.TrimSpace(jobDescription)))

	return prompt.String()
}

// GenerateHREvaluationPrompt строит промпт оценки ответа HR-раунда
func GenerateHREvaluationPrompt(question, answer string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an HR evaluator assistant.\n")
	prompt.WriteString("Evaluate the following answer to the HR question.\n\n")
	prompt.WriteString(fmt.Sprintf("Question: %s\n", question))
	prompt.WriteString(fmt.Sprintf("Answer: %s\n\n", answer))
	prompt.WriteString("Return the result in this format strictly:\n")
	prompt.WriteString("Score: <score out of 10>\n")
	prompt.WriteString("Feedback: <feedback on structure, clarity, and content>\n")
	prompt.WriteString("Confidence Level: <Low, Medium, High> based on the tone of the answer.\n")
	prompt.WriteString("Don't include anything else.")

	return prompt.String()
}

// GenerateTechnicalQuestionsPrompt просит нумерованный список вопросов по домену
func GenerateTechnicalQuestionsPrompt(domain string, count int) string {
	return fmt.Sprintf(
		"You are a technical interviewer. Generate %d unique, non-repetitive, "+
			"interview questions related to the job domain: '%s'. "+
			"Make sure these are beginner to intermediate level and relevant for a mock interview. "+
			"Return only a numbered list of questions. Do not include any introduction, explanations, or extra text.",
		count, domain)
}

// GenerateTechnicalEvaluationPrompt строит промпт оценки технического ответа
func GenerateTechnicalEvaluationPrompt(question, answer, domain string) string {
	var prompt strings.Builder

	prompt.WriteString("You are evaluating a technical interview answer.\n\n")
	prompt.WriteString(fmt.Sprintf("Domain: %s\n", domain))
	prompt.WriteString(fmt.Sprintf("Question: %s\n", question))
	prompt.WriteString(fmt.Sprintf("Candidate's Answer: %s\n\n", answer))
	prompt.WriteString("Evaluate this answer out of 10 based on:\n")
	prompt.WriteString("1. Correctness\n")
	prompt.WriteString("2. Keyword relevance\n\n")
	prompt.WriteString("Return strictly the score (out of 10) and 1-2 lines of feedback. Example:\n")
	prompt.WriteString("Score: 7/10\nFeedback: Correct concept but lacks depth.")

	return prompt.String()
}
