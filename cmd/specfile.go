package cmd

import (
	"fmt"
	"os"

	"github.com/delaynet/delaynet"
)

// loadSpec reads and validates a YAML spec file (§6.1, §4.10).
func loadSpec(path string) (*delaynet.ValidSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file %s: %w", path, err)
	}
	spec, err := delaynet.ParseSpecFile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing spec file %s: %w", path, err)
	}
	valid, err := delaynet.Validate(spec)
	if err != nil {
		return nil, fmt.Errorf("validating spec file %s: %w", path, err)
	}
	return valid, nil
}
