package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/riftlabs/riftotc/internal/models"
	"github.com/riftlabs/riftotc/internal/narrative"
)

const systemPrompt = `You are an expert crypto analyst for an OTC trading platform called Rift.ai.
Your job is to analyze tokens for SHORT-TERM locked deals (1-8 weeks).

You will receive PRE-CALCULATED deterministic scores for ALL categories.
Your job is to INTERPRET these scores and provide a cohesive narrative.

CRITICAL: Your explanation (Reasoning) must be BEGINNER-FRIENDLY.
Imagine you are explaining to a complete newcomer.
Avoid jargon where possible, or explain it simply.
Use terms like "Good / Bad / Risky" clearly.

YOUR TASK:
1. Accept ALL provided scores as fact.
2. Synthesize the reasoning from the provided scorecard details.
3. Be specific: quote the "Dev Activity" or "Liquidity Risk" in your reasoning.

Return JSON:
{
    "reasoning": "<Summary of why scores were given. Mention specific data points.>",
    "key_risks": ["risk1", "risk2"]
}`

const chatSystemPrompt = `You are a helpful crypto analyst assistant.
You have performed a detailed analysis of a token (Context).
User is asking questions about this analysis.

RULES:
1. Answer strictly based on the provided Context metrics.
2. If the user asks "Why is risk high?", look at the risk score and key risks in context.
3. Keep answers concise (max 2-3 sentences).
4. Be professional but conversational.`

// Narrator implements the narrative.Narrator interface using OpenAI
type Narrator struct {
	client *openai.Client
	model  string
}

// NewNarrator creates a new OpenAI narrator instance
func NewNarrator(apiKey string, model string) *Narrator {
	client := openai.NewClient(apiKey)
	if model == "" {
		model = openai.GPT4o
	}
	return &Narrator{
		client: client,
		model:  model,
	}
}

// Narrate implements the narrative.Narrator interface
func (n *Narrator) Narrate(ctx context.Context, card *narrative.Scorecard) (*narrative.Narrative, error) {
	prompt := buildPrompt(card)

	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: n.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.7,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	var result narrative.Narrative
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse narrative results: %w", err)
	}
	return &result, nil
}

// Chat implements the narrative.Narrator interface
func (n *Narrator) Chat(ctx context.Context, message string, analysis *models.TokenAnalysis) (string, error) {
	contextJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis context: %w", err)
	}

	prompt := fmt.Sprintf("CONTEXT (Analysis Results):\n%s\n\nUSER QUESTION:\n%s", contextJSON, message)

	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: n.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: chatSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
			MaxTokens:   200,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(card *narrative.Scorecard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TOKEN: %s (%s)\n", card.TokenName, strings.ToUpper(card.TokenSymbol))
	fmt.Fprintf(&b, "Lock Period: %d weeks\n\n", card.LockPeriod)
	b.WriteString("DETERMINISTIC SCORECARD:\n\n")

	fmt.Fprintf(&b, "1. TECHNICAL SCORE: %.1f/10\n", card.Scores.Technical)
	writeDetails(&b, card.TechnicalDetails)

	fmt.Fprintf(&b, "\n2. RISK SCORE: %.1f/10 (Higher = Worse)\n", card.Scores.Risk)
	writeDetails(&b, card.RiskDetails)

	fmt.Fprintf(&b, "\n3. SENTIMENT SCORE: %.1f/10\n", card.Scores.Sentiment)
	writeDetails(&b, card.SentimentDetails)

	fmt.Fprintf(&b, "\n4. ON-CHAIN SCORE: %.1f/10\n", card.Scores.OnChain)
	writeDetails(&b, card.OnChainDetails)

	fmt.Fprintf(&b, "\n5. FUNDAMENTAL SCORE: %.1f/10\n", card.Scores.Fundamental)
	writeDetails(&b, card.FundamentalDetails)

	fmt.Fprintf(&b, "\n=== OVERALL SYSTEM SCORE: %.1f/10 ===\n\n", card.Scores.Overall)
	b.WriteString("Generate the JSON analysis based on these metrics.")

	return b.String()
}

func writeDetails(b *strings.Builder, details []string) {
	for _, d := range details {
		fmt.Fprintf(b, "- %s\n", d)
	}
}
