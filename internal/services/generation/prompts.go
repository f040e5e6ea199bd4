package generation

import (
	"fmt"

	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/upstream"
)

// emailLengthGuide и productLengthGuide переводят выбор длины из формы
// в ориентир по объёму текста для модели.
var emailLengthGuide = map[string]string{
	"short":  "100-150 words",
	"medium": "150-250 words",
	"long":   "250-400 words",
}

var productLengthGuide = map[string]string{
	"short":    "50-100 words",
	"medium":   "100-200 words",
	"long":     "200-300 words",
	"detailed": "300-400 words",
}

const emailSystemPrompt = `You are Alex Hormozi. write a 3-5 email campaign sequence.

STYLE GUIDE (STRICT):
- Write like you talk. 5th-grade reading level.
- Short, punchy sentences.
- High contrast. High value. Zero fluff.
- "Hook-Retain-Reward" structure in every email.
- Use "I" and "You". be direct.
- No corporate jargon. No "We hope this email finds you well."
- Format for readability: One sentence per line often.

OUTPUT SCHEMA (JSON ONLY):
{
  "campaign": [
    {
      "day": 1,
      "subjectLine": "Punchy Subject",
      "preheader": "Hook text",
      "body": "Body content...",
      "callToAction": "Direct CTA"
    },
    ... (3-5 emails total)
  ],
  "strategy": "Brief explanation of the campaign strategy"
}
`

func emailUserPrompt(req models.GenerateEmailRequest) string {
	length := emailLengthGuide[req.Length]
	if length == "" {
		length = "short"
	}
	prompt := fmt.Sprintf(`Generate a %s email sequence (3-5 emails) for:
Subject/Topic: %s
Purpose: %s
Target Audience: %s
Key Value Points: %s
Main CTA: %s`,
		length, req.Subject,
		orDefault(req.Purpose, "promotional"),
		orDefault(req.Audience, "General"),
		orDefault(req.KeyPoints, "Not specified"),
		orDefault(req.CTA, "Action"))
	if req.ImageURL != "" {
		prompt += "\nProduct image provided - use visual details as proof/evidence."
	}
	return prompt
}

func productSystemPrompt(req models.GenerateProductRequest) string {
	length := productLengthGuide[req.Length]
	if length == "" {
		length = "100-200 words"
	}
	return fmt.Sprintf(`You are Alex Hormozi writing product descriptions.

STYLE GUIDE (STRICT):
- Write at a 5th-grade reading level.
- Short sentences. Punchy.
- High contrast: "Old way" vs "New way".
- Focus on the "Dream Outcome" and "Perceived Likelihood of Achievement".
- No fluff. No jargon. Be direct.
- Use bullet points to stack value.
- "Hook-Retain-Reward" structure.

CRITICAL: You MUST respond with ONLY valid JSON matching this exact schema:

{
  "headline": "Punchy, benefit-driven headline (max 100 chars)",
  "tagline": "High-contrast tagline (max 50 chars)",
  "shortDescription": "Hook the reader instantly. 1-2 sentences. 5th grade level.",
  "fullDescription": "Stack the value here. Explain why this product gets them to their goal faster/easier/cheaper. (%s)",
  "keyFeatures": [
    { "title": "Feature Name", "description": "What it does for them (benefit)" }
  ],
  "benefits": ["Benefit 1 (Time)", "Benefit 2 (Money)", "Benefit 3 (Effort)"],
  "targetAudience": "Who this is SPECIFICALLY for",
  "callToAction": "Direct command (Buy Now / Get It)",
  "seoKeywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"]
}

Rules:
- Tone: %s
- Sell the OUTCOME, not the tool.
- Make the "Cost of Inaction" clear.`,
		length, orDefault(req.Tone, "Direct and High Value"))
}

func productUserPrompt(req models.GenerateProductRequest) string {
	length := productLengthGuide[req.Length]
	if length == "" {
		length = "100-200 words"
	}
	prompt := fmt.Sprintf(`Generate a Hormozi-style product description for:

Product Name: %s
Category: %s
Key Features: %s
Target Audience: %s
Tone: %s
Length: %s (%s)
`,
		req.ProductName,
		orDefault(req.Category, "General"),
		orDefault(req.Features, "Not specified"),
		orDefault(req.TargetAudience, "General consumers"),
		orDefault(req.Tone, "Direct"),
		orDefault(req.Length, "medium"), length)
	if req.ImageURL != "" {
		prompt += "\nProduct image provided. Use visual proof to back up your claims.\n"
	}
	prompt += "\nReturn ONLY the JSON object."
	return prompt
}

// buildMessages собирает сообщения диалога. Если задано изображение,
// пользовательское сообщение становится мультимодальным.
func buildMessages(systemPrompt, userPrompt, imageURL string) []upstream.ChatMessage {
	messages := []upstream.ChatMessage{{Role: "system", Content: systemPrompt}}
	if imageURL != "" {
		image := &struct {
			URL string `json:"url"`
		}{URL: imageURL}
		messages = append(messages, upstream.ChatMessage{
			Role: "user",
			Content: []upstream.ImageContent{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: image},
			},
		})
		return messages
	}
	messages = append(messages, upstream.ChatMessage{Role: "user", Content: userPrompt})
	return messages
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
