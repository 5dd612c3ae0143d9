package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"inheritance-engine/internal/estate"
	"inheritance-engine/internal/faraid"
	"inheritance-engine/internal/model"
	"inheritance-engine/internal/perdata"
	"inheritance-engine/internal/rupiah"
	"inheritance-engine/internal/validation"
)

// ErrContractViolation is returned by Calculate for input that cannot be
// interpreted at all: unknown enumerations or impossible relation genders.
var ErrContractViolation = errors.New("inheritance input violates the calculator contract")

type Options struct {
	Faraid  faraid.Options
	Perdata perdata.Options
}

type Calculator struct {
	rules map[model.LawSystem]Rules
}

func New(opts Options) *Calculator {
	return &Calculator{rules: newRegistry(opts)}
}

var defaultCalculator = New(Options{})

func Validate(in model.InheritanceInput) []string {
	return defaultCalculator.Validate(in)
}

func Calculate(in model.InheritanceInput) (*model.InheritanceResult, error) {
	return defaultCalculator.Calculate(in)
}

func (c *Calculator) Validate(in model.InheritanceInput) []string {
	return validation.Validate(in)
}

// Calculate computes every heir's share of the net estate. Input that fails
// validation but is still interpretable is calculated anyway; the validation
// messages are carried in the result's warnings.
func (c *Calculator) Calculate(in model.InheritanceInput) (*model.InheritanceResult, error) {
	if problems := validation.Contract(in); len(problems) > 0 {
		return nil, errors.Wrap(ErrContractViolation, strings.Join(problems, "; "))
	}
	rules, ok := c.rules[in.LawSystem]
	if !ok {
		return nil, errors.Wrapf(ErrContractViolation, "no rules registered for law system %q", in.LawSystem)
	}

	var warnings []string
	for _, msg := range c.Validate(in) {
		warnings = append(warnings, "Input tidak valid: "+msg)
	}

	b := estate.Normalize(in)
	res := Aggregate(in, b.Net, rules.Compute(in.Deceased, in.Heirs))
	res.Explanations = append([]string{describeEstate(b)}, res.Explanations...)
	warnings = append(warnings, b.Warnings...)
	res.Warnings = append(warnings, res.Warnings...)
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res, nil
}

func describeEstate(b estate.Breakdown) string {
	return fmt.Sprintf("Harta bersih %s = total harta %s - utang %s - biaya pemakaman %s - wasiat %s.",
		rupiah.Format(b.Net), rupiah.Format(b.Gross), rupiah.Format(b.Debts), rupiah.Format(b.FuneralCosts), rupiah.Format(b.Wasiat))
}

// Process wraps Calculate in the response envelope served over HTTP: failed
// validation yields CRITICAL messages and no result, calculation warnings
// yield WARNING messages.
func (c *Calculator) Process(req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()

	var allMessages []model.CalculationMessage
	outcome := model.OutcomeSuccess
	var result *model.InheritanceResult

	addMessage := func(level, code, text string) {
		allMessages = append(allMessages, model.CalculationMessage{
			ID:      len(allMessages),
			Level:   level,
			Code:    code,
			Message: text,
		})
	}

	for _, msg := range c.Validate(req.Input) {
		addMessage(model.LevelCritical, model.CodeValidation, msg)
	}

	if len(allMessages) > 0 {
		outcome = model.OutcomeFailure
	} else if res, err := c.Calculate(req.Input); err != nil {
		addMessage(model.LevelCritical, model.CodeContractViolation, err.Error())
		outcome = model.OutcomeFailure
	} else {
		result = res
		for _, w := range res.Warnings {
			addMessage(model.LevelWarning, model.CodeCalculation, w)
		}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			RequestID:              req.RequestID,
			LawSystem:              req.Input.LawSystem,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		Messages: allMessages,
		Result:   result,
	}
}
