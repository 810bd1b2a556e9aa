package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/ignite/review-responder/internal/config"
	"github.com/ignite/review-responder/internal/ozon"
)

// BedrockGenerator drafts replies with a Claude model on AWS Bedrock.
type BedrockGenerator struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
	region    string
}

// bedrockMessage represents a message in Bedrock format
type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

// bedrockContentBlock represents content in a message
type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// bedrockRequest is the request to the Bedrock InvokeModel API
type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

// bedrockResponse is the response from Bedrock
type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// generatedReply is one item of the JSON array the model is asked to return.
type generatedReply struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
}

// NewBedrockGenerator creates a Bedrock-backed reply generator. When static
// credentials are configured they are used directly; otherwise the default
// credential chain applies (IAM role, shared profile).
func NewBedrockGenerator(ctx context.Context, cfg appconfig.BedrockConfig) (*BedrockGenerator, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	g := &BedrockGenerator{
		client:    bedrockruntime.NewFromConfig(awsCfg),
		modelID:   cfg.ModelID,
		maxTokens: cfg.MaxTokens,
		region:    cfg.Region,
	}

	log.Printf("BedrockGenerator: Initialized with model=%s, region=%s", g.modelID, g.region)
	return g, nil
}

// Generate drafts one reply per review in a single model call and validates
// that every requested id is covered.
func (g *BedrockGenerator) Generate(ctx context.Context, reviews []ozon.Review, policyText string) (map[string]string, error) {
	if len(reviews) == 0 {
		return map[string]string{}, nil
	}

	request := bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        g.maxTokens,
		System:           systemPrompt,
		Messages: []bedrockMessage{
			{
				Role: "user",
				Content: []bedrockContentBlock{
					{Type: "text", Text: BuildPrompt(reviews, policyText)},
				},
			},
		},
		Temperature: 0.7,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		return nil, fmt.Errorf("Bedrock API error: %w", err)
	}

	var response bedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var responseText string
	for _, content := range response.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}

	log.Printf("BedrockGenerator: Drafted replies for %d reviews (in: %d tokens, out: %d tokens)",
		len(reviews), response.Usage.InputTokens, response.Usage.OutputTokens)

	replies, err := ParseReplies(responseText)
	if err != nil {
		return nil, err
	}

	return ValidateCoverage(reviews, replies)
}

// ParseReplies extracts the generated reply array from the model response
// text, tolerating surrounding prose and code fences.
func ParseReplies(responseText string) (map[string]string, error) {
	raw := extractJSONArray(responseText)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array found in generator response")
	}

	var items []generatedReply
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}

	replies := make(map[string]string, len(items))
	for _, item := range items {
		replies[item.ID] = item.Reply
	}
	return replies, nil
}

// extractJSONArray returns the outermost [...] slice of text.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
