package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "test-service"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected the no-op shutdown to succeed: %v", err)
	}
}

func TestSetupWithEndpoint(t *testing.T) {
	// a non-routable address, the exporter only connects when exporting
	shutdown, err := Setup(context.Background(), Options{
		ServiceName: "test-service",
		Endpoint:    "http://192.0.2.1:4318",
		SampleRatio: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatalf("expected a shutdown function")
	}
	_ = shutdown(context.Background())
}

func TestResourceAttributes(t *testing.T) {
	got := resourceAttributes(Options{ServiceName: "kiln", ServiceVersion: "0.1.0", Backend: "evdev"})
	expected := map[attribute.Key]string{
		"service.name":    "kiln",
		"service.version": "0.1.0",
		"kiln.backend":    "evdev",
	}
	gotMap := map[attribute.Key]string{}
	for _, kv := range got {
		gotMap[kv.Key] = kv.Value.AsString()
	}
	if diff := cmp.Diff(expected, gotMap); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	if n := len(resourceAttributes(Options{ServiceName: "kiln"})); n != 1 {
		t.Errorf("expected only the service name, got %d attributes", n)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected string
	}{
		{1, "AlwaysOnSampler"},
		{0.5, "ParentBased{root:TraceIDRatioBased{0.5}"},
	}
	for _, test := range tests {
		if got := sampler(test.ratio).Description(); !strings.HasPrefix(got, test.expected) {
			t.Errorf("ratio %v: expected %q, got %q", test.ratio, test.expected, got)
		}
	}
}
