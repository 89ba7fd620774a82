package config

import (
	"os"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Source supplies raw configuration values by key.
type Source interface {
	Lookup(key string) (string, bool)
}

// EnvSource reads the process environment. A dotted key such as
// payment.vnpay.apiUrl is also looked up as PAYMENT_VNPAY_APIURL.
type EnvSource struct{}

func (EnvSource) Lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	return os.LookupEnv(envName(key))
}

func envName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// NewFileSource parses a Java properties file. Values are kept verbatim
// except for ${key} placeholders, which resolve against the file and then
// the environment.
func NewFileSource(path string) (MapSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	values := make(MapSource, p.Len())
	for _, key := range p.Keys() {
		values[key], _ = p.Get(key)
	}
	return values, nil
}

type chain []Source

// Chain consults sources in order and returns the first non-empty value.
func Chain(sources ...Source) Source {
	return chain(sources)
}

func (c chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}
