package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mochaeng/fcoder-gateway/internal/config"
)

func nopLogger(string, string) (*zap.Logger, error) {
	return zap.NewNop(), nil
}

func freePort(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return strconv.Itoa(port)
}

func TestRun_MissingSecretKey(t *testing.T) {
	port := freePort(t)
	src := config.MapSource{
		config.VNPayAPIURLKey:  "https://sandbox.vnpayment.vn/pay",
		config.VNPayTmnCodeKey: "TEST001",
		"PORT":                 port,
	}

	err := run(context.Background(), src, nopLogger)

	var missing *config.MissingConfigurationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "payment.vnpay.secretKey", missing.Key)

	// nothing may be listening after a failed start
	_, _, err = fasthttp.GetTimeout(nil, "http://127.0.0.1:"+port+"/health", 200*time.Millisecond)
	assert.Error(t, err)
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	port := freePort(t)
	src := config.MapSource{
		config.VNPayAPIURLKey:    gateway.URL,
		config.VNPayTmnCodeKey:   "TEST001",
		config.VNPaySecretKeyKey: "ABC123",
		"PORT":                   port,
		"REDIS_URL":              "redis://127.0.0.1:1",
		"HEALTH_CHECK_RETRIES":   "0",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, src, nopLogger)
	}()

	require.Eventually(t, func() bool {
		status, _, err := fasthttp.Get(nil, "http://127.0.0.1:"+port+"/health")
		return err == nil && status == fasthttp.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("run returned early: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestSources(t *testing.T) {
	t.Run("default file may be absent", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("PAYMENT_VNPAY_SECRET_ARN", "")
		t.Setenv("PAYMENT_VNPAY_TMNCODE", "ENV001")

		src, err := sources(context.Background(), zap.NewNop())
		require.NoError(t, err)

		v, ok := src.Lookup(config.VNPayTmnCodeKey)
		assert.True(t, ok)
		assert.Equal(t, "ENV001", v)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.properties"))

		_, err := sources(context.Background(), zap.NewNop())
		require.Error(t, err)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.properties")
		require.NoError(t, os.WriteFile(path, []byte("payment.vnpay.tmnCode=FILE001\npayment.vnpay.secretKey=FILESECRET\n"), 0o600))

		t.Setenv("CONFIG_FILE", path)
		t.Setenv("PAYMENT_VNPAY_SECRET_ARN", "")
		t.Setenv("PAYMENT_VNPAY_TMNCODE", "ENV001")

		src, err := sources(context.Background(), zap.NewNop())
		require.NoError(t, err)

		code, _ := src.Lookup(config.VNPayTmnCodeKey)
		assert.Equal(t, "ENV001", code)

		secret, _ := src.Lookup(config.VNPaySecretKeyKey)
		assert.Equal(t, "FILESECRET", secret)
	})
}

func TestRun_LoggerFollowsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.properties")
	content := "payment.vnpay.apiUrl=https://sandbox.vnpayment.vn/pay\n" +
		"payment.vnpay.tmnCode=TEST001\n" +
		"payment.vnpay.secretKey=ABC123\n" +
		"STAGE=prod\n" +
		"LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	file, err := config.NewFileSource(path)
	require.NoError(t, err)

	stop := errors.New("logger built")
	var gotStage, gotLevel string
	factory := func(stage, level string) (*zap.Logger, error) {
		gotStage, gotLevel = stage, level
		return nil, stop
	}

	err = run(context.Background(), config.Chain(config.MapSource{}, file), factory)
	require.ErrorIs(t, err, stop)
	assert.Equal(t, "prod", gotStage)
	assert.Equal(t, "debug", gotLevel)
}

const exitHelperEnv = "FCODER_MAIN_EXIT_HELPER"

func TestMain_ExitsNonZeroWithoutSecretKey(t *testing.T) {
	if os.Getenv(exitHelperEnv) == "1" {
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestMain_ExitsNonZeroWithoutSecretKey$")
	cmd.Env = append(os.Environ(),
		exitHelperEnv+"=1",
		"CONFIG_FILE=",
		"PAYMENT_VNPAY_SECRET_ARN=",
		"PAYMENT_VNPAY_APIURL=https://sandbox.vnpayment.vn/pay",
		"PAYMENT_VNPAY_TMNCODE=TEST001",
		"PAYMENT_VNPAY_SECRETKEY=",
		"payment.vnpay.secretKey=",
		"PORT="+freePort(t),
	)

	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "output: %s", out)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(out), "payment.vnpay.secretKey")
}
