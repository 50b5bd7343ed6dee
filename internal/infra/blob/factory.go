// Package blob selects a concrete artifact store backend.
package blob

import (
	"context"
	"fmt"
	"os"

	"degcore/internal/infra/blob/core"
	"degcore/internal/infra/blob/fs"
	"degcore/internal/infra/blob/memory"
	"degcore/internal/infra/blob/s3"
)

// Store re-exports the backend-neutral interface.
type Store = core.Store

// Driver re-exports the backend identifier type.
type Driver = core.Driver

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

// Open selects a blob store implementation using environment variables.
//
//	DEGCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	DEGCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./artifacts)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("DEGCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return fs.New(os.Getenv("DEGCORE_BLOB_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
