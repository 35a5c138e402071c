package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
	"github.com/wyfcoding/riskdesk/internal/risk/domain"
)

type capturingPublisher struct {
	alerts []*domain.RiskAlertGeneratedEvent
}

func (p *capturingPublisher) PublishRiskAlert(_ context.Context, event *domain.RiskAlertGeneratedEvent) error {
	p.alerts = append(p.alerts, event)
	return nil
}

func newTestRiskService(varLimit float64, publisher domain.EventPublisher) (*RiskService, *position.Ledger) {
	engine := pricing.NewEngine(0.05)
	analyzer := domain.NewAnalyzer(engine, domain.Config{
		ContractMultiplier: 100,
		FutureVolatility:   0.15,
		ConfidenceZ:        1.645,
		SensitivityPoints:  100,
		SensitivityLower:   0.7,
		SensitivityUpper:   1.3,
	})
	ledger := position.NewLedger()
	return NewRiskService(analyzer, ledger, nil, nil, publisher, nil, varLimit), ledger
}

func addOption(t *testing.T, ledger *position.Ledger, symbol string, qty int64) {
	t.Helper()
	p, err := position.NewOptionPosition(symbol, pricing.OptionTypeCall, 100, 100, time.Now().Add(365*24*time.Hour), 0.2, qty, nil)
	require.NoError(t, err)
	ledger.Upsert(p)
}

func TestGreeksEmptyLedger(t *testing.T) {
	svc, _ := newTestRiskService(0, nil)

	greeks, err := svc.Greeks(context.Background())
	require.NoError(t, err)
	assert.True(t, greeks.Delta.IsZero())
}

func TestMetricsWithoutInfrastructure(t *testing.T) {
	// 未接入存储与缓存时仍能完成计算
	svc, ledger := newTestRiskService(0, nil)
	addOption(t, ledger, "OPT", 1)

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.PositionCount)
	assert.True(t, metrics.VaR95.IsPositive())
}

func TestMetricsEmitsAlertWhenVaRExceedsLimit(t *testing.T) {
	publisher := &capturingPublisher{}
	svc, ledger := newTestRiskService(1, publisher)
	addOption(t, ledger, "OPT", 10)

	_, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	require.Len(t, publisher.alerts, 1)
	assert.InDelta(t, 1, publisher.alerts[0].Limit, 1e-12)
}

func TestMetricsNoAlertBelowLimit(t *testing.T) {
	publisher := &capturingPublisher{}
	svc, ledger := newTestRiskService(1e9, publisher)
	addOption(t, ledger, "OPT", 1)

	_, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, publisher.alerts)
}

func TestScenarioThroughService(t *testing.T) {
	svc, ledger := newTestRiskService(0, nil)
	addOption(t, ledger, "OPT", 1)

	result, err := svc.Scenario(context.Background(), domain.Scenario{PriceChange: 0.1})
	require.NoError(t, err)
	assert.True(t, result.TotalPnL.IsPositive())
}

func TestCompareScenariosThroughService(t *testing.T) {
	svc, ledger := newTestRiskService(0, nil)
	addOption(t, ledger, "OPT", 1)

	results, err := svc.CompareScenarios(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 5)
}
