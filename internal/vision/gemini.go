package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const visionModel = "gemini-1.5-flash"

const platePrompt = `Analyze these two images of a dining plate - the first shows the plate before eating,
the second shows the same plate after eating.

Please provide a detailed JSON response with the following structure:
{
    "food_items": [
        {
            "name": "food item name",
            "initial_portion": "description of initial amount (e.g., 'full serving', '6 oz')",
            "remaining_portion": "description of remaining amount",
            "waste_percentage": <number between 0-100 representing how much was LEFT/WASTED, not eaten>,
            "estimated_weight_oz": <estimated weight of WASTED food in ounces>,
            "category": "entree/side/vegetable/dessert/beverage"
        }
    ],
    "overall_assessment": "brief summary of waste patterns",
    "suggestions": ["actionable tip 1", "actionable tip 2"]
}

IMPORTANT: waste_percentage should represent the percentage of food that was LEFT ON THE PLATE (wasted),
not the percentage that was eaten. For example:
- If someone ate everything: waste_percentage = 0-10%
- If someone ate most of it: waste_percentage = 10-25%
- If someone ate half: waste_percentage = 40-60%
- If someone barely touched it: waste_percentage = 75-100%

Be specific about each distinct food item you can identify. Focus on accuracy and be realistic
about portion sizes typical in college dining halls.
Do not include any other text or formatting in your response.`

// geminiVision analyzes plates with the Gemini API.
type geminiVision struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiVision creates a PlateVision backed by Gemini.
func NewGeminiVision(ctx context.Context, apiKey string) (PlateVision, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiVision{
		client: client,
		model:  client.GenerativeModel(visionModel),
	}, nil
}

// AnalyzePlate sends both photos plus the structured prompt to Gemini and
// validates the response into a PlateAnalysis.
func (g *geminiVision) AnalyzePlate(ctx context.Context, beforeImage, afterImage []byte) (*PlateAnalysis, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.Text(platePrompt),
		genai.ImageData("jpeg", beforeImage),
		genai.ImageData("jpeg", afterImage),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plate analysis: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("generated content is not text")
	}

	return ParseAnalysis(string(text))
}

// Close closes the underlying Gemini client.
func (g *geminiVision) Close() error {
	return g.client.Close()
}

// ParseAnalysis extracts and validates the JSON payload from a model
// response, tolerating markdown code fences around it.
func ParseAnalysis(text string) (*PlateAnalysis, error) {
	payload := stripCodeFence(text)

	var analysis PlateAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for i, item := range analysis.FoodItems {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: food item %d is missing a name", ErrMalformedResponse, i)
		}
		if item.WastePercentage == nil {
			return nil, fmt.Errorf("%w: food item %q is missing waste_percentage", ErrMalformedResponse, item.Name)
		}
	}

	return &analysis, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
