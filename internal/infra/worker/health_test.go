package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"
)

/* ─── ヘルパ ─── */

// startHealthServer starts a server on addr and waits until it answers.
func startHealthServer(t *testing.T, addr string) (*HealthServer, context.CancelFunc, <-chan error) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer(addr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			_ = resp.Body.Close()
			return server, cancel, errChan
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	t.Fatalf("health server on %s did not start", addr)
	return nil, nil, nil
}

func getStatus(t *testing.T, url string) (int, healthResponse) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var response healthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("unmarshal %q: %v", body, err)
	}
	return resp.StatusCode, response
}

/* ─── テスト ─── */

func TestHealthServer_Liveness(t *testing.T) {
	_, cancel, _ := startHealthServer(t, "localhost:19091")
	defer cancel()

	status, response := getStatus(t, "http://localhost:19091/health")
	if status != http.StatusOK {
		t.Errorf("liveness status = %d, want 200", status)
	}
	if response.Status != "ok" {
		t.Errorf("liveness body status = %q, want 'ok'", response.Status)
	}
}

func TestHealthServer_ReadinessTransitions(t *testing.T) {
	server, cancel, _ := startHealthServer(t, "localhost:19092")
	defer cancel()

	// 起動直後はnot ready
	status, response := getStatus(t, "http://localhost:19092/health/ready")
	if status != http.StatusServiceUnavailable {
		t.Errorf("initial readiness status = %d, want 503", status)
	}
	if response.Status != "not ready" {
		t.Errorf("initial readiness body = %q, want 'not ready'", response.Status)
	}

	server.SetReady(true)
	status, response = getStatus(t, "http://localhost:19092/health/ready")
	if status != http.StatusOK {
		t.Errorf("readiness status after SetReady(true) = %d, want 200", status)
	}
	if response.Status != "ok" {
		t.Errorf("readiness body after SetReady(true) = %q, want 'ok'", response.Status)
	}

	server.SetReady(false)
	status, _ = getStatus(t, "http://localhost:19092/health/ready")
	if status != http.StatusServiceUnavailable {
		t.Errorf("readiness status after SetReady(false) = %d, want 503", status)
	}
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	_, cancel, errChan := startHealthServer(t, "localhost:19093")

	cancel()

	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			t.Errorf("shutdown error = %v, want http.ErrServerClosed", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown timeout")
	}

	if _, err := http.Get("http://localhost:19093/health"); err == nil {
		t.Error("expected connection error after shutdown")
	}
}

func TestNewHealthServer(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer(":9091", logger)

	if server.addr != ":9091" {
		t.Errorf("addr = %q, want ':9091'", server.addr)
	}
	if server.logger == nil {
		t.Error("logger not set")
	}
	if server.isReady == nil {
		t.Fatal("isReady not initialized")
	}
	if server.isReady.Load() {
		t.Error("server must start as not ready")
	}
}

func TestSetReady(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer(":9091", logger)

	server.SetReady(true)
	if !server.isReady.Load() {
		t.Error("isReady = false after SetReady(true)")
	}

	server.SetReady(false)
	if server.isReady.Load() {
		t.Error("isReady = true after SetReady(false)")
	}
}
