package logger

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func WithRunID(runID uuid.UUID) zap.Field {
	return zap.String("run.id", runID.String())
}

func WithSchemaPath(path string) zap.Field {
	return zap.String("schema.path", path)
}

func WithSchemaSize(size int) zap.Field {
	return zap.Int("schema.bytes", size)
}

func WithDriver(driver string) zap.Field {
	return zap.String("db.driver", driver)
}

func WithInstallRoot(root string) zap.Field {
	return zap.String("install.root", root)
}
