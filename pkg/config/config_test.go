package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServiceName: "riskdesk",
		HTTP:        HTTPConfig{Port: 8080},
		Database:    DatabaseConfig{Driver: "mysql", DSN: "root:root@tcp(localhost:3306)/riskdesk"},
		Engine: EngineConfig{
			RiskFreeRate:            0.05,
			ContractMultiplier:      100,
			FutureDefaultVolatility: 0.15,
			VaRConfidenceZ:          1.645,
			SensitivityPoints:       100,
			SensitivityLower:        0.7,
			SensitivityUpper:        1.3,
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadEngineSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.ContractMultiplier = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Engine.FutureDefaultVolatility = -0.1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Engine.SensitivityLower = 1.3
	cfg.Engine.SensitivityUpper = 0.7
	assert.Error(t, cfg.Validate())

	// 采样点不足两个无法构成扫描轴
	cfg = validConfig()
	cfg.Engine.SensitivityPoints = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingBasics(t *testing.T) {
	cfg := validConfig()
	cfg.ServiceName = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.HTTP.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())
}
