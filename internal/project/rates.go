package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CaseForge/internal/pricing"
	"gopkg.in/yaml.v3"
)

// DefaultRatesPath returns ~/.caseforge/rates.yaml.
func DefaultRatesPath() string {
	return filepath.Join(DefaultConfigDir(), "rates.yaml")
}

// SaveRates writes a rate table as YAML.
func SaveRates(path string, rates pricing.RateTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadRates reads a rate table. Files ending in .json are decoded as JSON,
// anything else as YAML. Rates missing from the file keep their default
// values and a missing file yields pricing.DefaultRateTable. The result is
// validated.
func LoadRates(path string) (pricing.RateTable, error) {
	rates := pricing.DefaultRateTable()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rates, nil
		}
		return pricing.RateTable{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &rates)
	} else {
		err = yaml.Unmarshal(data, &rates)
	}
	if err != nil {
		return pricing.RateTable{}, fmt.Errorf("failed to parse rates %s: %w", filepath.Base(path), err)
	}
	if err := rates.Validate(); err != nil {
		return pricing.RateTable{}, fmt.Errorf("rates %s: %w", filepath.Base(path), err)
	}
	return rates, nil
}
