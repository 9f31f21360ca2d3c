package etabkg

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production zap logger shared by the commands, tagged
// with the run ID.
func NewLogger(debug bool, runID string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("could not initialize logger: %w", err)
	}
	return logger.With(zap.String("run", runID)), nil
}
