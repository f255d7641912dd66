package analytics

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnalysisPayloadJSON_Alerts(t *testing.T) {
	a := compute(liveWith(10, 10), nil)
	a.Alerts = nil

	cases := []struct {
		name    string
		payload *AnalysisPayload
		want    string
		absent  bool
	}{
		{"generated without alerts", generatedPayload(a), `"alerts":[]`, false},
		{"cached without alerts", cachedPayload(&StoredAnalysis{AnalysisDate: "2026-10-19", GeneratedAt: testNow}), `"alerts":[]`, false},
		{"fallback", &AnalysisPayload{LiveData: &LiveSnapshot{}}, `"alerts"`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if got := strings.Contains(string(raw), tc.want); got == tc.absent {
				t.Fatalf("contains %s = %v in %s", tc.want, got, raw)
			}
		})
	}
}

func TestAnalysisPayloadJSON_KeepsAlertsAndOmitsEmptyFields(t *testing.T) {
	a := compute(liveWith(10, 5), nil)
	raw, err := json.Marshal(generatedPayload(a))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		IsCached *bool   `json:"isCached"`
		Alerts   []Alert `json:"alerts"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.IsCached == nil || *decoded.IsCached {
		t.Fatalf("isCached = %v, want false", decoded.IsCached)
	}
	if len(decoded.Alerts) != len(a.Alerts) {
		t.Fatalf("alerts = %d, want %d", len(decoded.Alerts), len(a.Alerts))
	}
	if strings.Contains(string(raw), `"live_data"`) {
		t.Fatalf("generated payload should not carry live_data: %s", raw)
	}
}
