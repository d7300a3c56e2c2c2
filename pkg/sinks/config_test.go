package sinks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSinksFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write sinks file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeSinksFile(t, "sinks.yaml", `
sinks:
  - id: audit-log
    type: log
  - id: crm-hook
    type: http
    http:
      url: https://crm.example.com/hooks/call2fa
      headers:
        X-Token: " secret "
  - id: events
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.eu-central-1.amazonaws.com/1/call-status
      region: eu-central-1
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	if got := len(reg.All()); got != 3 {
		t.Fatalf("All() = %d entries, want 3", got)
	}
	if got := len(reg.Enabled()); got != 2 {
		t.Fatalf("Enabled() = %d entries, want 2", got)
	}

	hook, ok := reg.ByID("crm-hook")
	if !ok {
		t.Fatalf("crm-hook not found")
	}
	if hook.HTTP.Method != "POST" {
		t.Fatalf("default method = %q, want POST", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("default timeout = %d", hook.HTTP.TimeoutSeconds)
	}
	if got := hook.HTTP.Headers["X-Token"]; got != "secret" {
		t.Fatalf("header not trimmed: %q", got)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing id",
			content: "sinks:\n  - type: log\n",
			wantErr: "id is required",
		},
		{
			name:    "missing type",
			content: "sinks:\n  - id: a\n",
			wantErr: "type is required",
		},
		{
			name:    "http without url",
			content: "sinks:\n  - id: a\n    type: http\n    http:\n      method: PUT\n",
			wantErr: "http.url is required",
		},
		{
			name:    "sqs without region",
			content: "sinks:\n  - id: a\n    type: sqs\n    sqs:\n      uri: https://q\n",
			wantErr: "sqs.region is required",
		},
		{
			name:    "sns without topic",
			content: "sinks:\n  - id: a\n    type: sns\n    sns:\n      region: eu-central-1\n",
			wantErr: "sns.topic_arn is required",
		},
		{
			name:    "pubsub without topic",
			content: "sinks:\n  - id: a\n    type: pubsub\n    pubsub:\n      project_id: p\n",
			wantErr: "pubsub.topic is required",
		},
		{
			name:    "duplicate ids",
			content: "sinks:\n  - id: a\n    type: log\n  - id: a\n    type: log\n",
			wantErr: "duplicate sink id",
		},
		{
			name:    "empty file",
			content: "sinks: []\n",
			wantErr: "no sinks entries",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSinksFile(t, "sinks.yaml", tc.content)
			_, err := LoadRegistry(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("LoadRegistry error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeSinksFile(t, "sinks.json", `{"sinks":[{"id":"audit","type":"log"}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("audit"); !ok {
		t.Fatalf("audit sink not loaded")
	}
}
