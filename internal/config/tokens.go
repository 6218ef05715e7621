package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rally-dfs/rly-rewards-sub000/internal/domain/model"
)

// TokenSeed is one tracked-token definition from the operator seed file.
type TokenSeed struct {
	Chain       string `yaml:"chain"`
	Mint        string `yaml:"mint"`
	Decimals    int    `yaml:"decimals"`
	DisplayName string `yaml:"name"`
}

// LoadTokenSeeds reads a YAML list of tracked tokens.
func LoadTokenSeeds(path string) ([]TokenSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token seed file: %w", err)
	}

	var seeds []TokenSeed
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("parse token seed file: %w", err)
	}

	for i, s := range seeds {
		if _, err := model.ParseChain(s.Chain); err != nil {
			return nil, fmt.Errorf("token seed %d: %w", i, err)
		}
		if s.Mint == "" {
			return nil, fmt.Errorf("token seed %d: mint is required", i)
		}
		if s.Decimals < 0 {
			return nil, fmt.Errorf("token seed %d: decimals must not be negative", i)
		}
	}
	return seeds, nil
}
