package calculations

import (
	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

// AnalyzeExtraPayments сравнивает базовый график с графиком с досрочными погашениями.
// Экономия не бывает отрицательной: неудачная конфигурация дает нулевую экономию.
func AnalyzeExtraPayments(scenario LoanScenario, extras []ExtraPayment) (*ExtraPaymentImpact, error) {
	baseline, err := Summarize(scenario.Principal, scenario.AnnualRatePercent, scenario.TermMonths, scenario.StartDate)
	if err != nil {
		return nil, err
	}

	accelerated, err := BuildSchedule(scenario, extras)
	if err != nil {
		return nil, err
	}

	// проценты базового графика берем из самого графика, а не из формулы M·n − P
	regular, err := BuildSchedule(scenario, nil)
	if err != nil {
		return nil, err
	}

	totalExtra := 0.0
	for _, entry := range accelerated.Schedule {
		if entry.ExtraAmount != nil {
			totalExtra = utils.Round2(totalExtra + *entry.ExtraAmount)
		}
	}

	withExtra := accelerated.Summary

	return &ExtraPaymentImpact{
		Baseline:          baseline,
		WithExtra:         withExtra,
		TotalExtraPaid:    totalExtra,
		MonthsSaved:       max(0, baseline.TermMonths-withExtra.TermMonths),
		InterestSaved:     max(0, utils.Round2(baseline.TotalInterest-withExtra.TotalInterest)),
		InterestPaidSaved: max(0, utils.Round2(regular.Summary.InterestPaid-withExtra.InterestPaid)),
	}, nil
}
