package stats

import (
	"testing"

	"degcore/testutil"
)

// The statistics layer is pure computation over domain types; it must never
// reach into storage backends or file-format adapters.
func TestStatsStaysBackendAgnostic(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden,
		"statistics must not import infrastructure")
	testutil.AssertNoDirectImports(t, ".", testutil.AdapterImportForbidden,
		"statistics must not import adapters")
}
