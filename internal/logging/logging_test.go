package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{})

	logger.Info("session started")
	logger.Warn("analytics delivery failed", zap.String("event", "Session_Start"))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "session started") {
		t.Fatalf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "Session_Start") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestNewVerboseJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Verbose: true, JSON: true})

	logger.Debug("operation ignored", zap.String("op", "add item"))
	_ = logger.Sync()

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "operation ignored" || line["op"] != "add item" || line["level"] != "debug" {
		t.Fatalf("unexpected line: %v", line)
	}
}
