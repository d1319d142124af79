package validators

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/mcp-loan-planner-go/internal/calculations"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/config"
	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число положительное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minExclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value <= minExclusive {
		return fmt.Errorf("%s: значение должно быть > %g", name, minExclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет сумму кредита
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("principal", principal, 0.0, cfg.MaxPrincipal)
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annual_rate_percent", rate, 0.0, cfg.MaxRate)
}

// CheckMonths проверяет срок в месяцах
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("months", months, 1, cfg.MaxMonths)
}

// CheckScenario проверяет параметры сценария целиком
func CheckScenario(cfg *config.Config, scenario calculations.LoanScenario) error {
	if err := CheckPrincipal(cfg, scenario.Principal); err != nil {
		return err
	}
	if err := CheckRate(cfg, scenario.AnnualRatePercent); err != nil {
		return err
	}
	if err := CheckMonths(cfg, scenario.TermMonths); err != nil {
		return err
	}
	return CheckAmortization(scenario)
}

// CheckAmortization проверяет, что платеж гасит основной долг при точности до копейки
func CheckAmortization(scenario calculations.LoanScenario) error {
	principal, err := calculations.FirstPrincipalPortion(scenario)
	if err != nil {
		return err
	}
	if principal <= 0 {
		return errors.New("параметры кредита: ежемесячный платеж не покрывает проценты, основной долг не гасится (уменьшите ставку или срок)")
	}
	return nil
}

// CheckExtraPayments проверяет досрочные погашения
func CheckExtraPayments(cfg *config.Config, extras []calculations.ExtraPayment) error {
	if len(extras) > cfg.MaxExtraPayments {
		return fmt.Errorf("extra_payments: слишком много записей (>%d)", cfg.MaxExtraPayments)
	}
	for i, extra := range extras {
		if err := ValidateIntRange(fmt.Sprintf("extra_payments[%d].payment_number", i), extra.PaymentNumber, 1, cfg.MaxMonths); err != nil {
			return err
		}
		name := fmt.Sprintf("extra_payments[%d].amount", i)
		if err := ValidatePositiveNumber(name, extra.Amount, 0.0, cfg.MaxPrincipal); err != nil {
			return err
		}
		if utils.Round2(extra.Amount) <= 0 {
			return fmt.Errorf("%s: значение меньше 0.01", name)
		}
	}
	return nil
}

// CheckCandidateRates проверяет ставки для сравнения
func CheckCandidateRates(cfg *config.Config, rates []float64) error {
	if len(rates) > cfg.MaxCandidateRates {
		return fmt.Errorf("candidate_rates: слишком много ставок (>%d)", cfg.MaxCandidateRates)
	}
	for i, rate := range rates {
		if err := ValidatePositiveNumber(fmt.Sprintf("candidate_rates[%d]", i), rate, 0.0, cfg.MaxRate); err != nil {
			return err
		}
	}
	return nil
}
