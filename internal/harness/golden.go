package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario on every backend, fails the test on
// unmet assertions and compares each report with the golden file
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	for _, backend := range BackendNames() {
		result, err := Run(scenario, backend)
		if err != nil {
			t.Fatalf("%s: run scenario %s: %v", backend, scenario.Name, err)
		}
		for _, msg := range result.Errors {
			t.Errorf("%s: %s", backend, msg)
		}
		AssertGolden(t, scenario.Name, result)
	}
}

// AssertGolden compares a result's report against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Report()))
}
