package genesets

import (
	"testing"

	"degcore/testutil"
)

func TestGeneSetsStayBackendAgnostic(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden,
		"gene set construction must not import infrastructure")
	testutil.AssertNoDirectImports(t, ".", testutil.AdapterImportForbidden,
		"gene set construction must not import adapters")
}
