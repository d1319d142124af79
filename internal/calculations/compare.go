package calculations

import (
	"fmt"
	"sort"

	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

// CompareRates сравнивает итоговые выплаты по кредиту для набора ставок при той же
// сумме и сроке. Ставка сценария всегда присутствует ровно один раз, результат
// отсортирован по возрастанию ставки.
func CompareRates(scenario LoanScenario, candidateRates []float64) ([]LoanComparison, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	rates := []float64{scenario.AnnualRatePercent}
	seen := map[float64]struct{}{scenario.AnnualRatePercent: {}}
	for i, rate := range candidateRates {
		if !utils.IsFinite(rate) || rate <= 0 {
			return nil, fmt.Errorf("%w: candidate_rates[%d] должен быть > 0, получено %v", ErrInvalidArgument, i, rate)
		}
		if _, ok := seen[rate]; ok {
			continue
		}
		seen[rate] = struct{}{}
		rates = append(rates, rate)
	}
	sort.Float64s(rates)

	_, currentInterest, _ := rateTotals(scenario, scenario.AnnualRatePercent)

	comparison := make([]LoanComparison, 0, len(rates))
	for _, rate := range rates {
		payment, totalInterest, totalPayment := rateTotals(scenario, rate)
		comparison = append(comparison, LoanComparison{
			InterestRate:       rate,
			MonthlyPayment:     payment,
			TotalInterest:      totalInterest,
			TotalPayment:       totalPayment,
			InterestDifference: utils.Round2(totalInterest - currentInterest),
			IsCurrent:          rate == scenario.AnnualRatePercent,
		})
	}

	return comparison, nil
}

// rateTotals считает платеж и итоги для ставки; входные данные уже проверены
func rateTotals(scenario LoanScenario, rate float64) (payment, totalInterest, totalPayment float64) {
	payment = monthlyPayment(scenario.Principal, MonthlyRate(rate), scenario.TermMonths)
	totalPayment = utils.Round2(payment * float64(scenario.TermMonths))
	return payment, utils.Round2(totalPayment - scenario.Principal), totalPayment
}
