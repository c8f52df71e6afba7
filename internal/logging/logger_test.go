package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"sheaf/internal/logging"
)

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger = logging.WithComponent(logger, "organize")
	logger.Info("placed file", logging.String("file", "report_jan.xlsx"), logging.Int("count", 2))

	line := buf.String()
	if !strings.Contains(line, "INFO organize: placed file") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "file=report_jan.xlsx") || !strings.Contains(line, "count=2") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestConsoleHandlerQuotesSpacedValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("skip", logging.String("reason", "no prefix"))
	if !strings.Contains(buf.String(), `reason="no prefix"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("pass complete", logging.Int("processed", 3))
	out := buf.String()
	if !strings.Contains(out, `"msg":"pass complete"`) || !strings.Contains(out, `"processed":3`) {
		t.Fatalf("unexpected json record: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
