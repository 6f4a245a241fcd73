package platform

import (
	"fmt"
	"os/exec"
)

// RequiredBinaries lists external system binaries the harness needs to function
var RequiredBinaries = []string{
	"curl",
}

// OptionalBinaries are only needed for specific engines.
var OptionalBinaries = map[string]string{
	"java": "Lucene/Luke benchmarks",
}

func ValidateDependencies() error {
	for _, bin := range RequiredBinaries {
		_, err := exec.LookPath(bin)
		if err != nil {
			return fmt.Errorf("required dependency: '%s' not found in PATH", bin)
		}
	}

	// Check optional engine binaries
	for bin, feature := range OptionalBinaries {
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Printf("Info: %s not found. %s will be disabled.\n", bin, feature)
		}
	}

	return nil
}
