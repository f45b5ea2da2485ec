package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petal-labs/yvision/cli/config"
	"github.com/petal-labs/yvision/cli/keystore"
	"github.com/petal-labs/yvision/core"
	"github.com/petal-labs/yvision/logging"
	"github.com/petal-labs/yvision/ocr"
)

// Environment variables that take precedence over the keystore.
const (
	EnvAPIKey   = "YVISION_API_KEY"
	EnvIAMToken = "YVISION_IAM_TOKEN"
)

// OCRClient is the part of *ocr.Client the commands use.
type OCRClient interface {
	RecognizeTextFromFile(ctx context.Context, path string, opts core.Options) (*core.OcrResponse, error)
	StartTextRecognitionFromFile(ctx context.Context, path string, opts core.Options) (*core.OperationHandle, error)
	GetOperation(ctx context.Context, operationID string) (*core.OperationStatus, error)
	GetRecognition(ctx context.Context, operationID string) (*core.OcrResponse, error)
	Wait(ctx context.Context, operationID string, timeout time.Duration, backoff *core.BackoffPolicy) (*core.OcrResponse, error)
	WaitMany(ctx context.Context, ids []string, timeout time.Duration, backoff *core.BackoffPolicy, runner core.Runner) ([]*core.OcrResponse, error)
}

// ClientFactory creates an OCR client using CLI config context.
type ClientFactory func(creds core.CredentialProvider, cfg *config.Config, hook core.TelemetryHook) (OCRClient, error)

func defaultClientFactory(creds core.CredentialProvider, cfg *config.Config, hook core.TelemetryHook) (OCRClient, error) {
	backoff, err := cfg.BackoffPolicy()
	if err != nil {
		return nil, configError(err)
	}
	mws, err := cfg.Middleware()
	if err != nil {
		return nil, configError(err)
	}

	opts := []ocr.Option{
		ocr.WithGeneratedRequestIDs(),
		ocr.WithBackoff(backoff),
		ocr.WithTelemetry(hook),
		ocr.WithMiddleware(mws...),
	}
	if cfg.OCRBaseURL != "" {
		opts = append(opts, ocr.WithOCRBaseURL(cfg.OCRBaseURL))
	}
	if cfg.OperationBaseURL != "" {
		opts = append(opts, ocr.WithOperationBaseURL(cfg.OperationBaseURL))
	}

	return ocr.New(creds, opts...), nil
}

// client resolves credentials and builds the OCR client for a command.
func (a *App) client() (OCRClient, func(), error) {
	creds, err := a.credentials()
	if err != nil {
		return nil, nil, err
	}

	var hook core.TelemetryHook
	cleanup := func() {}
	if a.verbose {
		logger, err := logging.NewLogger(true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
		hook = logging.NewTelemetryHook(logger)
		cleanup = func() { _ = logger.Sync() }
	}

	c, err := a.createClient(creds, a.cfg, hook)
	if err != nil {
		return nil, nil, err
	}
	return c, cleanup, nil
}

// credentials reads the credential from the environment, then the keystore.
func (a *App) credentials() (core.CredentialProvider, error) {
	scheme, err := a.cfg.AuthScheme()
	if err != nil {
		return nil, configError(err)
	}

	envVar := EnvAPIKey
	if scheme == config.AuthIAMToken {
		envVar = EnvIAMToken
	}

	secret := strings.TrimSpace(a.getenv(envVar))
	if secret == "" {
		ks, err := a.newKeystore()
		if err != nil {
			return nil, configError(fmt.Errorf("failed to open keystore: %w", err))
		}
		ref := a.cfg.KeyRef()
		secret, err = ks.Get(ref)
		if err != nil {
			var notFound *keystore.ErrKeyNotFound
			if errors.As(err, &notFound) {
				return nil, configError(fmt.Errorf("no credential found: set %s or run 'yvision keys set %s'", envVar, ref))
			}
			return nil, configError(fmt.Errorf("failed to read keystore: %w", err))
		}
	}

	if scheme == config.AuthIAMToken {
		return core.NewIAMToken(secret, time.Time{}), nil
	}
	return core.NewAPIKey(secret), nil
}
