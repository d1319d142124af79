package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-loan-planner-go/internal/calculations"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/config"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/log"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/metrics"
	"github.com/cloud-ru/mcp-loan-planner-go/internal/validators"
)

// ErrInvalidParams — ошибка входных параметров инструмента
var ErrInvalidParams = errors.New("неверные параметры")

// Имена инструментов
const (
	ToolLoanSummary          = "loan_summary"
	ToolAmortizationSchedule = "amortization_schedule"
	ToolExtraPaymentImpact   = "extra_payment_impact"
	ToolCompareRates         = "compare_rates"
	ToolPayoffDate           = "payoff_date"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Registry возвращает все инструменты по именам
func Registry(cfg *config.Config, tracer trace.Tracer, logger *log.Logger) map[string]ToolHandler {
	return map[string]ToolHandler{
		ToolLoanSummary:          LoanSummaryHandler(cfg, tracer, logger),
		ToolAmortizationSchedule: AmortizationScheduleHandler(cfg, tracer, logger),
		ToolExtraPaymentImpact:   ExtraPaymentImpactHandler(cfg, tracer, logger),
		ToolCompareRates:         CompareRatesHandler(cfg, tracer, logger),
		ToolPayoffDate:           PayoffDateHandler(cfg, tracer, logger),
	}
}

// Names возвращает отсортированные имена инструментов
func Names(registry map[string]ToolHandler) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// call — общий каркас вызова: спан, метрики, логирование и классификация ошибок
type call struct {
	toolName string
	span     trace.Span
	logger   *log.Logger
}

func start(ctx context.Context, tracer trace.Tracer, logger *log.Logger, toolName string) (context.Context, *call) {
	ctx, span := tracer.Start(ctx, toolName)
	metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()
	// логгер запроса несет request_id, компонент остается прежним
	requestLogger := log.FromContextOr(ctx, logger).WithComponent(logger.Component())
	return ctx, &call{
		toolName: toolName,
		span:     span,
		logger:   requestLogger.With(log.FieldTool, toolName),
	}
}

func (c *call) scenario(s calculations.LoanScenario) {
	c.span.SetAttributes(
		attribute.Float64("principal", s.Principal),
		attribute.Float64("annual_rate_percent", s.AnnualRatePercent),
		attribute.Int("months", s.TermMonths),
		attribute.String("start_date", calculations.FormatDate(s.StartDate)),
	)
	c.logger = c.logger.With(
		log.FieldPrincipal, s.Principal,
		log.FieldRate, s.AnnualRatePercent,
		log.FieldMonths, s.TermMonths,
	)
}

func (c *call) invalid(ctx context.Context, err error) error {
	c.span.SetAttributes(attribute.String("error", "validation_error"))
	c.span.SetStatus(codes.Error, err.Error())
	metrics.ToolCalls.WithLabelValues(c.toolName, "validation_error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.toolName, "validation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.toolName, "error").Inc()
	c.logger.WarnContext(ctx, "Неверные параметры", log.FieldError, err)
	if errors.Is(err, ErrInvalidParams) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, err)
}

func (c *call) failed(ctx context.Context, err error) error {
	if errors.Is(err, calculations.ErrInvalidArgument) {
		return c.invalid(ctx, err)
	}
	c.span.SetAttributes(attribute.String("error", "calculation_error"))
	c.span.SetStatus(codes.Error, err.Error())
	metrics.ToolCalls.WithLabelValues(c.toolName, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.toolName, "calculation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.toolName, "error").Inc()
	c.logger.ErrorContext(ctx, "Ошибка при выполнении расчета", log.FieldError, err)
	return fmt.Errorf("ошибка при выполнении расчета: %w", err)
}

func (c *call) succeeded(ctx context.Context, attrs ...attribute.KeyValue) {
	c.span.SetAttributes(append(attrs, attribute.Bool("success", true))...)
	metrics.ToolCalls.WithLabelValues(c.toolName, "success").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.toolName, "success").Inc()
	c.logger.DebugContext(ctx, "Расчет выполнен")
}

func (c *call) end() {
	c.span.End()
}

// LoanSummaryHandler обрабатывает запрос на сводку по кредиту без досрочных погашений
func LoanSummaryHandler(cfg *config.Config, tracer trace.Tracer, logger *log.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := start(ctx, tracer, logger, ToolLoanSummary)
		defer c.end()

		scenario, err := scenarioParams(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.scenario(scenario)

		if err := validators.CheckScenario(cfg, scenario); err != nil {
			return nil, c.invalid(ctx, err)
		}

		summary, err := calculations.Summarize(scenario.Principal, scenario.AnnualRatePercent, scenario.TermMonths, scenario.StartDate)
		if err != nil {
			return nil, c.failed(ctx, err)
		}

		c.succeeded(ctx,
			attribute.Float64("monthly_payment", summary.MonthlyPayment),
			attribute.Float64("total_payment", summary.TotalPayment),
		)
		return summary, nil
	}
}

// AmortizationScheduleHandler обрабатывает запрос на график платежей с досрочными погашениями
func AmortizationScheduleHandler(cfg *config.Config, tracer trace.Tracer, logger *log.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := start(ctx, tracer, logger, ToolAmortizationSchedule)
		defer c.end()

		scenario, err := scenarioParams(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.scenario(scenario)
		extras, err := extraPaymentsParam(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}

		if err := validators.CheckScenario(cfg, scenario); err != nil {
			return nil, c.invalid(ctx, err)
		}
		if err := validators.CheckExtraPayments(cfg, extras); err != nil {
			return nil, c.invalid(ctx, err)
		}

		result, err := calculations.BuildSchedule(scenario, extras)
		if err != nil {
			return nil, c.failed(ctx, err)
		}

		metrics.ScheduleLength.Observe(float64(len(result.Schedule)))
		c.logger = c.logger.With(log.FieldScheduleLen, len(result.Schedule))
		c.succeeded(ctx,
			attribute.Int("schedule_length", len(result.Schedule)),
			attribute.Float64("total_payment", result.Summary.TotalPayment),
		)
		return result, nil
	}
}

// ExtraPaymentImpactHandler обрабатывает запрос на оценку эффекта досрочных погашений
func ExtraPaymentImpactHandler(cfg *config.Config, tracer trace.Tracer, logger *log.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := start(ctx, tracer, logger, ToolExtraPaymentImpact)
		defer c.end()

		scenario, err := scenarioParams(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.scenario(scenario)
		extras, err := extraPaymentsParam(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.span.SetAttributes(attribute.Int("extra_payments", len(extras)))

		if err := validators.CheckScenario(cfg, scenario); err != nil {
			return nil, c.invalid(ctx, err)
		}
		if err := validators.CheckExtraPayments(cfg, extras); err != nil {
			return nil, c.invalid(ctx, err)
		}

		impact, err := calculations.AnalyzeExtraPayments(scenario, extras)
		if err != nil {
			return nil, c.failed(ctx, err)
		}

		metrics.ScheduleLength.Observe(float64(impact.WithExtra.TermMonths))
		c.logger = c.logger.With(log.FieldScheduleLen, impact.WithExtra.TermMonths)
		c.succeeded(ctx,
			attribute.Int("months_saved", impact.MonthsSaved),
			attribute.Float64("interest_saved", impact.InterestSaved),
		)
		return impact, nil
	}
}

// CompareRatesHandler обрабатывает запрос на сравнение ставок
func CompareRatesHandler(cfg *config.Config, tracer trace.Tracer, logger *log.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := start(ctx, tracer, logger, ToolCompareRates)
		defer c.end()

		scenario, err := scenarioParams(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.scenario(scenario)
		rates, err := candidateRatesParam(params)
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.span.SetAttributes(attribute.Float64Slice("candidate_rates", rates))

		if err := validators.CheckScenario(cfg, scenario); err != nil {
			return nil, c.invalid(ctx, err)
		}
		if err := validators.CheckCandidateRates(cfg, rates); err != nil {
			return nil, c.invalid(ctx, err)
		}

		comparison, err := calculations.CompareRates(scenario, rates)
		if err != nil {
			return nil, c.failed(ctx, err)
		}

		c.succeeded(ctx, attribute.Int("rates_compared", len(comparison)))
		return map[string]interface{}{
			"principal":   scenario.Principal,
			"months":      scenario.TermMonths,
			"comparisons": comparison,
		}, nil
	}
}

// PayoffDateHandler обрабатывает запрос на дату последнего платежа
func PayoffDateHandler(cfg *config.Config, tracer trace.Tracer, logger *log.Logger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := start(ctx, tracer, logger, ToolPayoffDate)
		defer c.end()

		startDate, err := optionalString(params, "start_date")
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		months, err := intParam(params, "months")
		if err != nil {
			return nil, c.invalid(ctx, err)
		}
		c.logger = c.logger.With(log.FieldMonths, months)
		if err := validators.CheckMonths(cfg, months); err != nil {
			return nil, c.invalid(ctx, err)
		}

		resolved := calculations.ResolveDate(startDate)
		payoff := calculations.FormatDate(calculations.PayoffDate(resolved, months))

		c.succeeded(ctx, attribute.String("payoff_date", payoff))
		return map[string]interface{}{
			"start_date":  calculations.FormatDate(resolved),
			"months":      months,
			"payoff_date": payoff,
		}, nil
	}
}
