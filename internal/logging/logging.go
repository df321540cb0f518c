package logging

import (
	"go.uber.org/zap"
)

// New builds the application logger: development output with debug level
// when debug is set, JSON production output otherwise.
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		zlogger *zap.Logger
		err     error
	)
	if debug {
		zlogger, err = zap.NewDevelopment()
	} else {
		zlogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return zlogger.Sugar(), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
