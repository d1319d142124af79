package calculations

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

func scenario(principal, rate float64, months int) LoanScenario {
	return LoanScenario{
		Principal:         principal,
		AnnualRatePercent: rate,
		TermMonths:        months,
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sumPrincipal(schedule []AmortizationPayment) float64 {
	total := 0.0
	for _, entry := range schedule {
		total = utils.Round2(total + entry.PrincipalPortion)
	}
	return total
}

func TestGenerateScheduleInvariants(t *testing.T) {
	tests := []struct {
		name     string
		scenario LoanScenario
	}{
		{"short consumer loan", scenario(10000, 10, 12)},
		{"30 year mortgage", scenario(100000, 12, 360)},
		{"low rate mortgage", scenario(250000, 5.5, 360)},
		{"single installment", scenario(10000, 12, 1)},
		{"odd cents principal", scenario(12345.67, 7.25, 37)},
		{"tiny loan", scenario(0.05, 3, 12)},
		{"small long loan", scenario(1000, 12, 360)},
		{"small loan at high rate", scenario(1000, 36, 360)},
		{"50 year loan", scenario(1000, 3, 600)},
		{"large loan at high rate", scenario(1e6, 60, 360)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := GenerateSchedule(tt.scenario, nil)
			require.NoError(t, err)
			require.Len(t, schedule, tt.scenario.TermMonths)

			payment, err := MonthlyPayment(tt.scenario.Principal, tt.scenario.AnnualRatePercent, tt.scenario.TermMonths)
			require.NoError(t, err)

			prev := tt.scenario.Principal
			for i, entry := range schedule {
				assert.Equal(t, i+1, entry.PaymentNumber)
				assert.Equal(t, payment, entry.PaymentAmount, "payment %d", entry.PaymentNumber)
				assert.False(t, entry.IsExtraPayment)
				assert.Nil(t, entry.ExtraAmount)
				assert.LessOrEqual(t, entry.RemainingBalance, prev, "payment %d", entry.PaymentNumber)
				prev = entry.RemainingBalance
			}

			assert.Equal(t, 0.0, schedule[len(schedule)-1].RemainingBalance)
			assert.InDelta(t, tt.scenario.Principal, sumPrincipal(schedule), 0.01)
		})
	}
}

func TestGenerateScheduleFirstInstallment(t *testing.T) {
	schedule, err := GenerateSchedule(scenario(10000, 10, 12), nil)
	require.NoError(t, err)

	first := schedule[0]
	assert.Equal(t, 877.16, first.PaymentAmount)
	assert.Equal(t, 79.74, first.InterestPortion)
	assert.Equal(t, 797.42, first.PrincipalPortion)
	assert.Equal(t, 9202.58, first.RemainingBalance)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), schedule[11].Date)
}

func TestGenerateScheduleDatesClampToMonthEnd(t *testing.T) {
	s := scenario(3000, 10, 4)
	s.StartDate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	schedule, err := GenerateSchedule(s, nil)
	require.NoError(t, err)

	want := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	for i, entry := range schedule {
		assert.Equal(t, want[i], entry.Date)
	}
}

func TestGenerateScheduleWithExtraPayment(t *testing.T) {
	schedule, err := GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{
		{PaymentNumber: 1, Amount: 2000},
	})
	require.NoError(t, err)

	require.Len(t, schedule, 10)
	assert.Less(t, len(schedule), 12)
	assert.Equal(t, 10000.0, sumPrincipal(schedule))

	first := schedule[0]
	assert.True(t, first.IsExtraPayment)
	require.NotNil(t, first.ExtraAmount)
	assert.Equal(t, 2000.0, *first.ExtraAmount)
	assert.Equal(t, 2877.16, first.PaymentAmount)
	assert.Equal(t, 2797.42, first.PrincipalPortion)
	assert.Equal(t, 7202.58, first.RemainingBalance)

	last := schedule[len(schedule)-1]
	assert.Equal(t, 0.0, last.RemainingBalance)
	assert.Equal(t, 458.8, last.PrincipalPortion)
	// валовая сумма не зависит от ограничения последнего платежа
	assert.Equal(t, 877.16, last.PaymentAmount)
}

func TestGenerateScheduleExtraPaymentsAreAdditive(t *testing.T) {
	single, err := GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{
		{PaymentNumber: 3, Amount: 1500},
	})
	require.NoError(t, err)

	note := "bonus"
	split, err := GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{
		{PaymentNumber: 3, Amount: 1000, Description: &note},
		{PaymentNumber: 3, Amount: 500},
	})
	require.NoError(t, err)

	assert.Equal(t, single, split)
	require.NotNil(t, split[2].ExtraAmount)
	assert.Equal(t, 1500.0, *split[2].ExtraAmount)
}

func TestGenerateScheduleIgnoresExtraBeyondTerm(t *testing.T) {
	regular, err := GenerateSchedule(scenario(10000, 10, 12), nil)
	require.NoError(t, err)

	extra, err := GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{
		{PaymentNumber: 13, Amount: 500},
	})
	require.NoError(t, err)

	assert.Equal(t, regular, extra)
}

func TestGenerateScheduleExtraExceedingBalance(t *testing.T) {
	schedule, err := GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{
		{PaymentNumber: 1, Amount: 20000},
		{PaymentNumber: 4, Amount: 500},
	})
	require.NoError(t, err)

	require.Len(t, schedule, 1)
	assert.Equal(t, 10000.0, schedule[0].PrincipalPortion)
	assert.Equal(t, 20877.16, schedule[0].PaymentAmount)
	assert.Equal(t, 0.0, schedule[0].RemainingBalance)
}

func TestGenerateScheduleRoundedPaymentSettlesEarly(t *testing.T) {
	schedule, err := GenerateSchedule(scenario(1000, 36, 360), nil)
	require.NoError(t, err)
	require.Len(t, schedule, 360)

	assert.Equal(t, 7.19, schedule[328].PrincipalPortion)
	assert.Equal(t, 0.0, schedule[328].RemainingBalance)

	for _, entry := range schedule[329:] {
		assert.Equal(t, 25.96, entry.PaymentAmount, "payment %d", entry.PaymentNumber)
		assert.Equal(t, 0.0, entry.PrincipalPortion, "payment %d", entry.PaymentNumber)
		assert.Equal(t, 0.0, entry.InterestPortion, "payment %d", entry.PaymentNumber)
		assert.Equal(t, 0.0, entry.RemainingBalance, "payment %d", entry.PaymentNumber)
	}
}

func TestGenerateScheduleIgnoresExtraAfterSettlement(t *testing.T) {
	regular, err := GenerateSchedule(scenario(1000, 36, 360), nil)
	require.NoError(t, err)

	extra, err := GenerateSchedule(scenario(1000, 36, 360), []ExtraPayment{
		{PaymentNumber: 345, Amount: 100},
	})
	require.NoError(t, err)

	assert.Equal(t, regular, extra)
}

func TestGenerateScheduleInvalidInput(t *testing.T) {
	_, err := GenerateSchedule(scenario(10000, 10, 0), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSchedule(scenario(-1, 10, 12), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{{PaymentNumber: 0, Amount: 100}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{{PaymentNumber: 2, Amount: -100}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSchedule(scenario(10000, 10, 12), []ExtraPayment{{PaymentNumber: 2, Amount: 0.004}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFirstPrincipalPortion(t *testing.T) {
	tests := []struct {
		name     string
		scenario LoanScenario
		want     float64
	}{
		{"short consumer loan", scenario(10000, 10, 12), 797.42},
		{"30 year mortgage", scenario(100000, 12, 360), 32.76},
		{"small loan at high rate", scenario(1000, 36, 360), 0.01},
		{"interest eats the payment", scenario(5000, 24, 600), 0},
		{"huge rate", scenario(1e9, 200, 360), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstPrincipalPortion(tt.scenario)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FirstPrincipalPortion(scenario(0, 10, 12))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuildScheduleSummary(t *testing.T) {
	result, err := BuildSchedule(scenario(10000, 10, 12), []ExtraPayment{
		{PaymentNumber: 1, Amount: 2000},
	})
	require.NoError(t, err)

	summary := result.Summary
	assert.Equal(t, 877.16, summary.MonthlyPayment)
	assert.Equal(t, 10, summary.TermMonths)
	assert.Equal(t, 10000.0, summary.TotalPrincipal)
	assert.Equal(t, 10771.6, summary.TotalPayment)
	assert.Equal(t, 771.6, summary.TotalInterest)
	assert.Equal(t, 356.9, summary.InterestPaid)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), summary.PayoffDate)
}

func TestGenerateScheduleConcurrent(t *testing.T) {
	want, err := GenerateSchedule(scenario(100000, 12, 360), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]AmortizationPayment, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = GenerateSchedule(scenario(100000, 12, 360), nil)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, got)
	}
}
