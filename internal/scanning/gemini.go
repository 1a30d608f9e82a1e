package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const receiptScanPrompt = `You are given a photo of a purchase receipt from a
traveller's expenses. Extract the following fields and respond with ONLY a
JSON object, no prose:

{
  "merchant": "vendor name as printed",
  "date": "purchase date as yyyy-mm-dd",
  "amount": 12.34,
  "currency": "ISO 4217 code, inferred from symbols or text",
  "category": "one of: food, transport, flights, lodging, activities, shopping, health, other"
}

Use null for any field you cannot determine. The amount is the receipt
total including tax and tip.`

// scanTimeout bounds a single Gemini call.
const scanTimeout = 30 * time.Second

// Gemini implements Scanner using a Google Gemini vision model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed Scanner.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("scanning.NewGemini: api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("scanning.NewGemini: %w", err)
	}

	return &Gemini{client: client, model: client.GenerativeModel(modelName)}, nil
}

// ScanReceipt sends the receipt image and prompt to Gemini and parses the
// JSON it returns. Only PNG and JPEG uploads are accepted.
func (g *Gemini) ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ReceiptData, error) {
	format, err := imageFormat(contentType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData(format, imageData),
		genai.Text(receiptScanPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("scanning.Gemini.ScanReceipt: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("scanning.Gemini.ScanReceipt: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	data, err := parseReceiptJSON(sb.String())
	if err != nil {
		return nil, fmt.Errorf("scanning.Gemini.ScanReceipt: %w", err)
	}
	return data, nil
}

// Close closes the underlying Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// imageFormat maps a MIME type to the format suffix genai.ImageData expects.
func imageFormat(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return "png", nil
	case "image/jpeg", "image/jpg":
		return "jpeg", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
}
