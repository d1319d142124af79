package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

// installmentState — состояние платежа в графике
type installmentState int

const (
	normalPayment installmentState = iota
	finalPayment
)

// остаток меньше копейки считается погашенным
const balanceEpsilon = 0.01

// aggregateExtraPayments суммирует досрочные погашения по номеру платежа
func aggregateExtraPayments(extras []ExtraPayment) (map[int]float64, error) {
	byNumber := make(map[int]float64, len(extras))
	for i, extra := range extras {
		if extra.PaymentNumber < 1 {
			return nil, fmt.Errorf("%w: extra_payments[%d].payment_number должен быть ≥ 1", ErrInvalidArgument, i)
		}
		if !utils.IsFinite(extra.Amount) || utils.Round2(extra.Amount) <= 0 {
			return nil, fmt.Errorf("%w: extra_payments[%d].amount должен быть не меньше 0.01", ErrInvalidArgument, i)
		}
		byNumber[extra.PaymentNumber] = utils.Round2(byNumber[extra.PaymentNumber] + extra.Amount)
	}
	return byNumber, nil
}

// FirstPrincipalPortion возвращает погашение основного долга в первом платеже.
// Если оно не больше нуля, кредит не гасится при точности до копейки.
func FirstPrincipalPortion(scenario LoanScenario) (float64, error) {
	if err := scenario.Validate(); err != nil {
		return 0, err
	}
	r := MonthlyRate(scenario.AnnualRatePercent)
	payment := monthlyPayment(scenario.Principal, r, scenario.TermMonths)
	return utils.Round2(payment - utils.Round2(utils.Round2(scenario.Principal)*r)), nil
}

// GenerateSchedule рассчитывает помесячный график аннуитетного кредита с учетом
// досрочных погашений. После первого досрочного погашения график заканчивается,
// как только остаток становится нулевым, поэтому он может быть короче срока.
// Без досрочных погашений в графике ровно TermMonths платежей: если платеж,
// округленный вверх до копеек, гасит долг раньше срока, оставшиеся платежи
// проходят с нулевым остатком.
func GenerateSchedule(scenario LoanScenario, extras []ExtraPayment) ([]AmortizationPayment, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	extraByNumber, err := aggregateExtraPayments(extras)
	if err != nil {
		return nil, err
	}

	r := MonthlyRate(scenario.AnnualRatePercent)
	payment := monthlyPayment(scenario.Principal, r, scenario.TermMonths)

	schedule := make([]AmortizationPayment, 0, scenario.TermMonths)
	remaining := utils.Round2(scenario.Principal)
	state := normalPayment
	extraApplied := false

	for m := 1; state == normalPayment; m++ {
		interest := utils.Round2(remaining * r)
		extra := 0.0
		if remaining > 0 {
			extra = extraByNumber[m]
		}
		if extra > 0 {
			extraApplied = true
		}
		principalComponent := utils.Round2(payment - interest + extra)

		if principalComponent >= remaining {
			principalComponent = remaining
			if extraApplied {
				state = finalPayment
			}
		}
		// последний платеж по сроку закрывает накопленную погрешность округления
		if m == scenario.TermMonths {
			principalComponent = remaining
			state = finalPayment
		}

		remaining = utils.Round2(remaining - principalComponent)
		if math.Abs(remaining) < balanceEpsilon {
			remaining = 0
			if extraApplied {
				state = finalPayment
			}
		}

		entry := AmortizationPayment{
			PaymentNumber:    m,
			Date:             utils.AddMonths(scenario.StartDate, m-1),
			PaymentAmount:    utils.Round2(payment + extra),
			PrincipalPortion: principalComponent,
			InterestPortion:  interest,
			RemainingBalance: remaining,
		}
		if extra > 0 {
			extraAmount := extra
			entry.IsExtraPayment = true
			entry.ExtraAmount = &extraAmount
		}

		schedule = append(schedule, entry)
	}

	return schedule, nil
}

// BuildSchedule возвращает график вместе со сводкой по нему
func BuildSchedule(scenario LoanScenario, extras []ExtraPayment) (*ScheduleResult, error) {
	schedule, err := GenerateSchedule(scenario, extras)
	if err != nil {
		return nil, err
	}

	payment := monthlyPayment(scenario.Principal, MonthlyRate(scenario.AnnualRatePercent), scenario.TermMonths)

	return &ScheduleResult{
		Summary:  summarizeSchedule(scenario.Principal, payment, schedule),
		Schedule: schedule,
	}, nil
}

func summarizeSchedule(principal, payment float64, schedule []AmortizationPayment) LoanSummary {
	totalPayment := 0.0
	totalPrincipal := 0.0
	interestPaid := 0.0
	for _, entry := range schedule {
		totalPayment = utils.Round2(totalPayment + entry.PaymentAmount)
		totalPrincipal = utils.Round2(totalPrincipal + entry.PrincipalPortion)
		interestPaid = utils.Round2(interestPaid + entry.InterestPortion)
	}

	summary := LoanSummary{
		MonthlyPayment: payment,
		TotalPrincipal: totalPrincipal,
		TotalInterest:  utils.Round2(totalPayment - principal),
		TotalPayment:   totalPayment,
		InterestPaid:   interestPaid,
		TermMonths:     len(schedule),
	}
	if len(schedule) > 0 {
		summary.PayoffDate = schedule[len(schedule)-1].Date
	}
	return summary
}
