package logger

import (
	"go.uber.org/zap"
)

// NOOPLogger discards everything. Used as the default until a real logger is wired.
var NOOPLogger = zap.NewNop().Sugar()

// New builds a sugared logger for the given app environment. "local" and
// "test" get the human readable development encoder, anything else JSON.
func New(appEnv string) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)

	switch appEnv {
	case "local", "test", "":
		l, err = zap.NewDevelopment()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return l.Sugar().With("app_env", appEnv), nil
}
