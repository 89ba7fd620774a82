package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	VNPayAPIURLKey    = "payment.vnpay.apiUrl"
	VNPayTmnCodeKey   = "payment.vnpay.tmnCode"
	VNPaySecretKeyKey = "payment.vnpay.secretKey"
)

const redacted = "[REDACTED]"

// VNPayConfig holds the VNPay gateway credentials. Values are captured once
// by LoadVNPay and never change afterwards.
type VNPayConfig struct {
	apiURL       string
	merchantCode string
	secretKey    string
}

// LoadVNPay reads the three gateway settings from src. The first key that is
// absent or blank is reported as a *MissingConfigurationError.
func LoadVNPay(src Source) (*VNPayConfig, error) {
	apiURL, err := lookupRequired(src, VNPayAPIURLKey)
	if err != nil {
		return nil, err
	}

	merchantCode, err := lookupRequired(src, VNPayTmnCodeKey)
	if err != nil {
		return nil, err
	}

	secretKey, err := lookupRequired(src, VNPaySecretKeyKey)
	if err != nil {
		return nil, err
	}

	return &VNPayConfig{
		apiURL:       apiURL,
		merchantCode: merchantCode,
		secretKey:    secretKey,
	}, nil
}

func lookupRequired(src Source, key string) (string, error) {
	v, ok := src.Lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &MissingConfigurationError{Key: key}
	}
	return v, nil
}

func (c *VNPayConfig) APIURL() string {
	return c.apiURL
}

// MerchantCode is the terminal code (vnp_TmnCode) issued by VNPay.
func (c *VNPayConfig) MerchantCode() string {
	return c.merchantCode
}

func (c *VNPayConfig) SecretKey() string {
	return c.secretKey
}

func (c *VNPayConfig) String() string {
	return fmt.Sprintf("VNPayConfig{apiUrl: %s, tmnCode: %s, secretKey: %s}", c.apiURL, c.merchantCode, redacted)
}

func (c *VNPayConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("apiUrl", c.apiURL)
	enc.AddString("tmnCode", c.merchantCode)
	enc.AddString("secretKey", redacted)
	return nil
}
