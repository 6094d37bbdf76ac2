package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"app/models"
)

// promptProductLimit caps how many products are summarized for the
// estimator in a single request.
const promptProductLimit = 10

// recentPoints is how many trailing quantities are included per product.
const recentPoints = 5

// GeminiEstimator asks the Gemini API for demand predictions. Any failure
// (transport, auth, timeout, unusable output) is returned as an error; the
// engine degrades to the statistical fallback.
type GeminiEstimator struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

var _ Source = (*GeminiEstimator)(nil)

const systemPrompt = "You are an inventory forecasting expert."

func (g *GeminiEstimator) Predict(ctx context.Context, req Request) (*Result, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	// Client-side timeout only; the remote call is abandoned, not
	// cancelled remotely.
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	name := g.Model
	if name == "" {
		name = "gemini-1.5-pro-latest"
	}
	model := client.GenerativeModel(name)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("estimator request failed: %w", err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, errors.New("estimator returned an empty response")
	}

	return decodeEstimate(raw, req.Products)
}

// buildPrompt renders a compact per-product summary plus the task.
func buildPrompt(req Request) string {
	products := req.Products
	if len(products) > promptProductLimit {
		products = products[:promptProductLimit]
	}

	var b strings.Builder
	b.WriteString("Historical Sales Data Summary:\n")
	for _, p := range products {
		m := req.Metrics[p.ProductID]
		series := req.Series[p.ProductID]
		if len(series) > recentPoints {
			series = series[len(series)-recentPoints:]
		}
		recent := make([]string, 0, len(series))
		for _, pt := range series {
			recent = append(recent, fmt.Sprint(pt.Quantity))
		}
		fmt.Fprintf(&b, "Product: %s (ID: %s). Avg daily sales: %.2f. Trend: %s. Total Sold: %d. Recent: [%s]. Stock: %d.\n",
			p.Name, p.ProductID, m.ADS, m.Trend, m.TotalSold, strings.Join(recent, ", "), p.CurrentStock)
	}

	fmt.Fprintf(&b, `
Task: Predict total quantity needed for the next %d days for each product.
Also analyze sales trends and provide a summary.
IMPORTANT: Estimate a 'confidenceScore' (0.0 to 1.0) for each prediction based on data consistency.
Output JSON: { "analysis": "string", "predictions": [ { "productId": "string", "predictedDemand": number, "confidenceScore": number } ] }`,
		req.TimeframeDays)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// estimatorResponse is the structured result requested from the model.
// The payload is untrusted; everything in it is validated before use.
type estimatorResponse struct {
	Analysis    string `json:"analysis"`
	Predictions []struct {
		ProductID       string   `json:"productId"`
		PredictedDemand float64  `json:"predictedDemand"`
		ConfidenceScore *float64 `json:"confidenceScore"`
	} `json:"predictions"`
}

// decodeEstimate parses and validates the estimator's JSON output against
// the known product set. Predictions for unknown products are dropped
// silently; fractional demand is ceiled and negatives are clamped to zero;
// a missing confidence score defaults to 0.85.
func decodeEstimate(raw string, products []models.Product) (*Result, error) {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("estimator returned unusable JSON: %w", err)
	}

	var parsed estimatorResponse
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode estimator response: %w", err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, errors.New("estimator response contained no predictions")
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	result := &Result{Analysis: parsed.Analysis}
	for _, pred := range parsed.Predictions {
		prod, ok := byID[pred.ProductID]
		if !ok {
			log.Printf("Dropping estimator prediction for unknown product %q", pred.ProductID)
			continue
		}

		demand := int(math.Ceil(pred.PredictedDemand))
		if demand < 0 {
			demand = 0
		}

		score := 0.85
		if pred.ConfidenceScore != nil {
			score = clamp(*pred.ConfidenceScore, 0, 1)
		}

		result.Predictions = append(result.Predictions, models.Prediction{
			ProductID:          prod.ProductID,
			ProductName:        prod.Name,
			CurrentStock:       prod.CurrentStock,
			PredictedDemand:    demand,
			ConfidenceScore:    score,
			ReorderRecommended: prod.CurrentStock < demand,
			ReorderThreshold:   prod.ReorderThreshold,
		})
	}

	if len(result.Predictions) == 0 {
		return nil, errors.New("estimator response matched no known products")
	}
	return result, nil
}
