package config

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"
)

// SecretArnEnv names the environment variable that, when set, points at a
// Secrets Manager secret holding configuration values.
const SecretArnEnv = "PAYMENT_VNPAY_SECRET_ARN"

//go:generate mockgen -destination=mocks/secrets_mock.go -package=mocks . SecretsAPI

// SecretsAPI is the subset of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsManagerAPI builds a client from the default AWS credential chain.
func NewSecretsManagerAPI(ctx context.Context) (SecretsAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load AWS SDK config")
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// NewSecretsSource fetches secretID once. Its SecretString must be a JSON
// object of configuration keys to string values, for example
// {"payment.vnpay.secretKey": "..."}.
func NewSecretsSource(ctx context.Context, api SecretsAPI, secretID string) (MapSource, error) {
	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get secret %s", secretID)
	}

	if out.SecretString == nil || *out.SecretString == "" {
		return nil, errors.Errorf("secret %s has no string value", secretID)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, errors.Wrapf(err, "decode secret %s", secretID)
	}

	return MapSource(values), nil
}
