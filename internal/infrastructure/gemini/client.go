package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	modelName    = "gemini-1.5-flash"
	maxBioLength = 300
)

// BioInput is what the bio prompt is built from.
type BioInput struct {
	DisplayName string
	Interests   []string
	Values      []string
	CityBucket  string
	Tone        string
}

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.8)

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateBios asks the model for three short dating bios. When the API is
// unavailable a fixed set built from the input is returned.
func (c *GeminiClient) GenerateBios(ctx context.Context, in BioInput) ([]string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(bioPrompt(in)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("gemini unavailable, using fallback bios", zap.Error(err))
		return FallbackBios(in), nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return FallbackBios(in), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	bios, err := ParseBios(sb.String())
	if err != nil {
		c.logger.Warn("unparseable gemini response, using fallback bios", zap.Error(err))
		return FallbackBios(in), nil
	}
	return bios, nil
}

func bioPrompt(in BioInput) string {
	tone := in.Tone
	if tone == "" {
		tone = "warm and playful"
	}
	return fmt.Sprintf(`
		Write 3 different dating profile bios for %s.
		Interests: %s
		Core values: %s
		Area: %s
		Tone: %s

		Each bio must be at most %d characters, first person, no hashtags.
		Output: JSON array of strings. Example: ["Bio one", "Bio two", "Bio three"]
	`, in.DisplayName, strings.Join(in.Interests, ", "), strings.Join(in.Values, ", "),
		strings.ReplaceAll(in.CityBucket, "_", " "), tone, maxBioLength)
}

// ParseBios reads the model output: a JSON array, optionally wrapped in a
// markdown code block, or one bio per line.
func ParseBios(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var bios []string
	if err := json.Unmarshal([]byte(text), &bios); err != nil {
		for _, line := range strings.Split(text, "\n") {
			line = strings.Trim(line, " \t-*\"")
			if line != "" && line != "[" && line != "]" {
				bios = append(bios, line)
			}
		}
		if len(bios) == 0 {
			return nil, fmt.Errorf("failed to parse bios: %w", err)
		}
	}

	out := bios[:0]
	for _, b := range bios {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if r := []rune(b); len(r) > maxBioLength {
			b = string(r[:maxBioLength])
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no bios in response")
	}
	return out, nil
}

// FallbackBios builds simple bios without the model.
func FallbackBios(in BioInput) []string {
	name := in.DisplayName
	if name == "" {
		name = "Me"
	}
	interests := "new experiences"
	if len(in.Interests) > 0 {
		interests = strings.Join(firstN(in.Interests, 3), ", ")
	}
	values := "honesty"
	if len(in.Values) > 0 {
		values = strings.Join(firstN(in.Values, 2), " and ")
	}

	return []string{
		fmt.Sprintf("%s here. Happiest when it involves %s. Looking for someone who values %s as much as I do.", name, interests, values),
		fmt.Sprintf("Ask me about %s. I care about %s and good conversation.", interests, values),
		fmt.Sprintf("Part-time explorer, full-time fan of %s. %s matter to me.", interests, strings.ToUpper(values[:1])+values[1:]),
	}
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
