package llm

// CostTable maps a model identifier to its price per thousand tokens.
// The table is immutable configuration: unknown models fall back to the
// DefaultModel entry instead of failing, so billing never blocks a
// response.
type CostTable struct {
	PerThousandTokens map[string]float64
	DefaultModel      string
	PricePerImage     float64
}

// DefaultCostTable mirrors the upstream provider's published pricing.
func DefaultCostTable() CostTable {
	return CostTable{
		PerThousandTokens: map[string]float64{
			"gpt-3.5-turbo": 0.002,
			"gpt-4":         0.03,
			"gpt-4-turbo":   0.01,
		},
		DefaultModel:  "gpt-3.5-turbo",
		PricePerImage: 0.04,
	}
}

// Cost computes the charge for totalTokens consumed by model.
func (t CostTable) Cost(model string, totalTokens int) float64 {
	price, ok := t.PerThousandTokens[model]
	if !ok {
		price = t.PerThousandTokens[t.DefaultModel]
	}
	return float64(totalTokens) / 1000 * price
}

// ImageCost computes the flat charge for n generated images.
func (t CostTable) ImageCost(n int) float64 {
	if n < 0 {
		n = 0
	}
	return float64(n) * t.PricePerImage
}
