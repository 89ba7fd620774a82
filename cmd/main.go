package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mochaeng/fcoder-gateway/internal/app"
	"github.com/mochaeng/fcoder-gateway/internal/config"
	"github.com/mochaeng/fcoder-gateway/internal/logger"
)

type loggerFactory func(stage, level string) (*zap.Logger, error)

func main() {
	// Bootstrap logger for config loading; run replaces it once STAGE and
	// LOG_LEVEL are resolved from every source.
	boot, err := logger.New(os.Getenv("STAGE"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer boot.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := sources(ctx, boot)
	if err == nil {
		err = run(ctx, src, logger.New)
	}
	if err != nil {
		var missing *config.MissingConfigurationError
		if errors.As(err, &missing) {
			boot.Error("missing required configuration", zap.String("key", missing.Key))
		} else {
			boot.Error("application failed", zap.Error(err))
		}
		stop()
		_ = boot.Sync()
		os.Exit(1)
	}
}

// run wires the application from src and serves until ctx is cancelled.
func run(ctx context.Context, src config.Source, newLogger loggerFactory) error {
	cfg, err := config.Load(src)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Stage, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return err
	}

	return application.Run(ctx, application.Mount())
}

// sources layers the environment over Secrets Manager over the config file.
func sources(ctx context.Context, log *zap.Logger) (config.Source, error) {
	env := config.EnvSource{}

	path, ok := env.Lookup("CONFIG_FILE")
	explicit := ok && path != ""
	if !explicit {
		path = config.DefaultConfigFile
	}

	file, err := config.NewFileSource(path)
	switch {
	case err == nil:
		log.Info("loaded config file", zap.String("path", path))
	case !explicit && errors.Is(err, fs.ErrNotExist):
		file = nil
	default:
		return nil, err
	}

	var secrets config.Source
	if arn, ok := env.Lookup(config.SecretArnEnv); ok && arn != "" {
		api, err := config.NewSecretsManagerAPI(ctx)
		if err != nil {
			return nil, err
		}
		sm, err := config.NewSecretsSource(ctx, api, arn)
		if err != nil {
			return nil, err
		}
		log.Info("loaded secrets", zap.String("secret_arn", arn))
		secrets = sm
	}

	return config.Chain(env, secrets, file), nil
}
