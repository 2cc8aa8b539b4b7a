package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestCustomFormatterLine(t *testing.T) {
	f := &CustomFormatter{SystemName: "bugcrew"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Event ID: TEST, Description: hello",
		Data:    logrus.Fields{"b": 2, "a": "x"},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	line := string(out)

	for _, want := range []string{
		"Date: 2024-05-06, Time: 07:08:09, ",
		"Event Source: bugcrew, ",
		"Event Type: WARNING, ",
		"Message: Event ID: TEST, Description: hello, a=x, b=2",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("line not newline terminated: %q", line)
	}
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	if err := InitLogger(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
