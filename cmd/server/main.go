package main

import (
	"context"
	"os"
	"time"

	"job-board/internal/app"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const stopTimeout = 10 * time.Second

func main() {
	// Failures before the container builds its own logger still come out
	// as structured JSON.
	bootLogger, err := zap.NewProduction()
	if err != nil {
		bootLogger = zap.NewNop()
	}

	code := run(bootLogger, app.Module)
	_ = bootLogger.Sync()
	os.Exit(code)
}

// run builds, starts and stops the container, returning the exit code.
func run(logger *zap.Logger, opts ...fx.Option) int {
	server := fx.New(append(opts, fx.StopTimeout(stopTimeout))...)
	if err := server.Err(); err != nil {
		logger.Error("failed to build app", zap.Error(err))
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), server.StartTimeout())
	defer cancel()
	if err := server.Start(startCtx); err != nil {
		logger.Error("failed to start", zap.Error(err))
		return 1
	}

	sig := <-server.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := server.Stop(stopCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		if sig.ExitCode == 0 {
			return 1
		}
	}
	return sig.ExitCode
}
