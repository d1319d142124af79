package tools

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-loan-planner-go/internal/calculations"
)

func floatParam(params map[string]interface{}, name string) (float64, error) {
	value, ok := params[name].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidParams, name)
	}
	return value, nil
}

func intParam(params map[string]interface{}, name string) (int, error) {
	value, err := floatParam(params, name)
	if err != nil {
		return 0, err
	}
	if value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s должен быть целым числом", ErrInvalidParams, name)
	}
	return int(value), nil
}

func optionalString(params map[string]interface{}, name string) (string, error) {
	raw, present := params[name]
	if !present || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidParams, name)
	}
	return value, nil
}

func optionalList(params map[string]interface{}, name string) ([]interface{}, error) {
	raw, present := params[name]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s должен быть массивом", ErrInvalidParams, name)
	}
	return list, nil
}

// scenarioParams собирает сценарий из principal, annual_rate_percent, months и start_date.
// Без start_date график начинается с сегодняшней даты.
func scenarioParams(params map[string]interface{}) (calculations.LoanScenario, error) {
	principal, err := floatParam(params, "principal")
	if err != nil {
		return calculations.LoanScenario{}, err
	}
	annualRatePercent, err := floatParam(params, "annual_rate_percent")
	if err != nil {
		return calculations.LoanScenario{}, err
	}
	months, err := intParam(params, "months")
	if err != nil {
		return calculations.LoanScenario{}, err
	}
	startDate, err := optionalString(params, "start_date")
	if err != nil {
		return calculations.LoanScenario{}, err
	}

	return calculations.LoanScenario{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        months,
		StartDate:         calculations.ResolveDate(startDate),
	}, nil
}

func extraPaymentsParam(params map[string]interface{}) ([]calculations.ExtraPayment, error) {
	list, err := optionalList(params, "extra_payments")
	if err != nil {
		return nil, err
	}

	extras := make([]calculations.ExtraPayment, 0, len(list))
	for i, item := range list {
		fields, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: extra_payments[%d]", ErrInvalidParams, i)
		}
		number, err := intParam(fields, "payment_number")
		if err != nil {
			return nil, fmt.Errorf("extra_payments[%d]: %w", i, err)
		}
		amount, err := floatParam(fields, "amount")
		if err != nil {
			return nil, fmt.Errorf("extra_payments[%d]: %w", i, err)
		}
		description, err := optionalString(fields, "description")
		if err != nil {
			return nil, fmt.Errorf("extra_payments[%d]: %w", i, err)
		}

		extra := calculations.ExtraPayment{PaymentNumber: number, Amount: amount}
		if description != "" {
			extra.Description = &description
		}
		extras = append(extras, extra)
	}
	return extras, nil
}

func candidateRatesParam(params map[string]interface{}) ([]float64, error) {
	list, err := optionalList(params, "candidate_rates")
	if err != nil {
		return nil, err
	}

	rates := make([]float64, 0, len(list))
	for i, item := range list {
		rate, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: candidate_rates[%d]", ErrInvalidParams, i)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
