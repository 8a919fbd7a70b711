package virality

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights maps a normalized keyword to its positive weight. The table is
// supplied externally and loaded once at startup.
type Weights map[string]float64

// Load reads a JSON keyword table ({"keyword": weight, ...}) and normalizes
// the keys the same way article text is normalized at scoring time.
func Load(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}

	weights := make(Weights, len(raw))
	for keyword, weight := range raw {
		weights[Normalize(keyword)] = weight
	}
	return weights, nil
}

// Total is the sum of all weights, the denominator for Percent.
func (w Weights) Total() float64 {
	var total float64
	for _, weight := range w {
		total += weight
	}
	return total
}
