package log

import (
	"go.uber.org/zap"
)

var Logger *zap.Logger

func InitProductionLogger() {
	Logger, _ = zap.NewProduction()
}

func InitDevelopmentLogger() {
	Logger, _ = zap.NewDevelopment()
}

// Init picks the logger flavor from configuration. The fallback keeps the
// global non-nil even before Init runs.
func Init(development bool) *zap.Logger {
	if development {
		InitDevelopmentLogger()
	} else {
		InitProductionLogger()
	}
	return Logger
}

func init() {
	Logger = zap.NewNop()
}
