package calculations

import "time"

// LoanScenario описывает входные параметры кредита
type LoanScenario struct {
	Principal         float64   `json:"principal"`
	AnnualRatePercent float64   `json:"annual_rate_percent"`
	TermMonths        int       `json:"term_months"`
	StartDate         time.Time `json:"start_date"`
}

// ExtraPayment — досрочное погашение основного долга в платеже с номером PaymentNumber
type ExtraPayment struct {
	PaymentNumber int     `json:"payment_number"`
	Amount        float64 `json:"amount"`
	Description   *string `json:"description,omitempty"`
}

// AmortizationPayment представляет одну запись в графике платежей
type AmortizationPayment struct {
	PaymentNumber    int       `json:"payment_number"`
	Date             time.Time `json:"date"`
	PaymentAmount    float64   `json:"payment_amount"`
	PrincipalPortion float64   `json:"principal_portion"`
	InterestPortion  float64   `json:"interest_portion"`
	RemainingBalance float64   `json:"remaining_balance"`
	IsExtraPayment   bool      `json:"is_extra_payment"`
	ExtraAmount      *float64  `json:"extra_amount,omitempty"`
}

// LoanSummary представляет сводку по кредиту
type LoanSummary struct {
	MonthlyPayment float64   `json:"monthly_payment"`
	TotalPrincipal float64   `json:"total_principal"`
	TotalInterest  float64   `json:"total_interest"`
	TotalPayment   float64   `json:"total_payment"`
	InterestPaid   float64   `json:"interest_paid"`
	PayoffDate     time.Time `json:"payoff_date"`
	TermMonths     int       `json:"term_months"`
}

// ExtraPaymentImpact — эффект досрочных погашений относительно базового графика.
// InterestSaved считается по валовым суммам платежей, InterestPaidSaved — по
// начисленным процентам графиков.
type ExtraPaymentImpact struct {
	Baseline          LoanSummary `json:"baseline"`
	WithExtra         LoanSummary `json:"with_extra"`
	TotalExtraPaid    float64     `json:"total_extra_paid"`
	MonthsSaved       int         `json:"months_saved"`
	InterestSaved     float64     `json:"interest_saved"`
	InterestPaidSaved float64     `json:"interest_paid_saved"`
}

// LoanComparison — одна строка сравнения по ставке
type LoanComparison struct {
	InterestRate       float64 `json:"interest_rate"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	TotalInterest      float64 `json:"total_interest"`
	TotalPayment       float64 `json:"total_payment"`
	InterestDifference float64 `json:"interest_difference"`
	IsCurrent          bool    `json:"is_current"`
}

// ScheduleResult — график вместе со сводкой, посчитанной по нему
type ScheduleResult struct {
	Summary  LoanSummary           `json:"summary"`
	Schedule []AmortizationPayment `json:"schedule"`
}
