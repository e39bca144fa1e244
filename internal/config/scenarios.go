package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// scenarioFile is the on-disk stress catalog. A list keeps definition order.
type scenarioFile struct {
	Scenarios []domain.StressScenario `yaml:"scenarios"`
}

// LoadScenarios reads an ordered stress catalog from a YAML file:
//
//	scenarios:
//	  - name: Crise 2008
//	    shocks: {equity: -0.45, bonds: -0.08}
func LoadScenarios(path string) ([]domain.StressScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stress scenarios: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes and validates a YAML stress catalog.
func ParseScenarios(data []byte) ([]domain.StressScenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse stress scenarios: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, domain.InvalidInputf("stress scenario file defines no scenarios")
	}
	if err := ValidateScenarios(file.Scenarios); err != nil {
		return nil, err
	}
	return file.Scenarios, nil
}
