package calculations

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

// ErrInvalidArgument возвращается при неположительной сумме, ставке или сроке
var ErrInvalidArgument = errors.New("invalid argument")

// MonthlyRate переводит эффективную годовую ставку (в процентах) в месячную.
// Ставка уже учитывает капитализацию, поэтому берется корень 12-й степени, а не деление на 12.
func MonthlyRate(annualRatePercent float64) float64 {
	return math.Pow(1.0+annualRatePercent/100.0, 1.0/12.0) - 1.0
}

func checkLoanInputs(principal, annualRatePercent float64, months int) error {
	if !utils.IsFinite(principal) || principal <= 0 {
		return fmt.Errorf("%w: principal должен быть > 0, получено %v", ErrInvalidArgument, principal)
	}
	if !utils.IsFinite(annualRatePercent) || annualRatePercent <= 0 {
		return fmt.Errorf("%w: annual_rate_percent должен быть > 0, получено %v", ErrInvalidArgument, annualRatePercent)
	}
	if months <= 0 {
		return fmt.Errorf("%w: months должен быть > 0, получено %d", ErrInvalidArgument, months)
	}
	return nil
}

// Validate проверяет параметры сценария
func (s LoanScenario) Validate() error {
	return checkLoanInputs(s.Principal, s.AnnualRatePercent, s.TermMonths)
}

// MonthlyPayment рассчитывает аннуитетный ежемесячный платеж, округленный до копеек
func MonthlyPayment(principal, annualRatePercent float64, months int) (float64, error) {
	if err := checkLoanInputs(principal, annualRatePercent, months); err != nil {
		return 0, err
	}
	return monthlyPayment(principal, MonthlyRate(annualRatePercent), months), nil
}

func monthlyPayment(principal, r float64, months int) float64 {
	n := float64(months)
	if r == 0.0 {
		return utils.Round2(principal / n)
	}
	factor := math.Pow(1.0+r, n)
	return utils.Round2(principal * r * factor / (factor - 1.0))
}

// Summarize возвращает сводку по кредиту без досрочных погашений
func Summarize(principal, annualRatePercent float64, months int, startDate time.Time) (LoanSummary, error) {
	payment, err := MonthlyPayment(principal, annualRatePercent, months)
	if err != nil {
		return LoanSummary{}, err
	}

	totalPayment := utils.Round2(payment * float64(months))
	totalInterest := utils.Round2(totalPayment - principal)

	return LoanSummary{
		MonthlyPayment: payment,
		TotalPrincipal: utils.Round2(principal),
		TotalInterest:  totalInterest,
		TotalPayment:   totalPayment,
		InterestPaid:   totalInterest,
		PayoffDate:     PayoffDate(startDate, months),
		TermMonths:     months,
	}, nil
}
