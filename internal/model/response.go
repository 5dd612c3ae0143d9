package model

type HeirShare struct {
	Heir          Heir    `json:"heir" yaml:"heir"`
	Fraction      string  `json:"fraction" yaml:"fraction"`
	Percentage    float64 `json:"percentage" yaml:"percentage"`
	Amount        int64   `json:"amount" yaml:"amount"`
	AmountPerHeir int64   `json:"amountPerHeir" yaml:"amount_per_heir"`
	Explanation   string  `json:"explanation" yaml:"explanation"`
}

type InheritanceResult struct {
	Input        InheritanceInput `json:"input" yaml:"input"`
	NetEstate    int64            `json:"netEstate" yaml:"net_estate"`
	Shares       []HeirShare      `json:"shares" yaml:"shares"`
	Residue      int64            `json:"residue" yaml:"residue"`
	Explanations []string         `json:"explanations" yaml:"explanations"`
	Warnings     []string         `json:"warnings" yaml:"warnings"`
}

// Distributed is the sum of all share amounts.
func (r *InheritanceResult) Distributed() int64 {
	var total int64
	for _, s := range r.Shares {
		total += s.Amount
	}
	return total
}

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata  `json:"calculation_metadata"`
	Messages            []CalculationMessage `json:"messages"`
	Result              *InheritanceResult   `json:"result"`
}

type CalculationMetadata struct {
	CalculationID          string    `json:"calculation_id"`
	RequestID              string    `json:"request_id,omitempty"`
	LawSystem              LawSystem `json:"law_system"`
	CalculationStartedAt   string    `json:"calculation_started_at"`
	CalculationCompletedAt string    `json:"calculation_completed_at"`
	CalculationDurationMs  int64     `json:"calculation_duration_ms"`
	CalculationOutcome     string    `json:"calculation_outcome"`
}

type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
