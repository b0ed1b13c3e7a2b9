package indicator

import (
	"testing"

	"docScanGuard/internal/model"
)

func TestClassify_DefaultRules(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		name       string
		input      string
		wantStatus model.Status
		wantRisk   model.RiskLevel
		wantIDs    []string
	}{
		{"Hyperlink", "visit http://example.com now", model.StatusSuspicious, model.RiskHigh, []string{"raw-hyperlink"}},
		{"Plain", "hello world", model.StatusSafe, model.RiskLow, nil},
		{"CaseInsensitive", "Run CMD.EXE /c whoami", model.StatusSuspicious, model.RiskHigh, []string{"cmd-shell"}},
		{"ShortLink", "see https://bit.ly/3abc", model.StatusSuspicious, model.RiskHigh, []string{"short-link"}},
		{"ShortLinkLaterOnLine", "https://x.com see bit.ly/y", model.StatusSuspicious, model.RiskHigh, []string{"short-link"}},
		{"ShortLinkNotAcrossLines", "https://x.com\nbit.ly/y", model.StatusSafe, model.RiskLow, nil},
		{"ShortLinkOverHTTP", "see http://tinyurl.com/x", model.StatusSuspicious, model.RiskHigh, []string{"raw-hyperlink", "short-link"}},
		{"ScriptURI", `<a href="JavaScript:alert(1)">`, model.StatusSuspicious, model.RiskHigh, []string{"javascript-uri"}},
		{"ScriptHost", "start wscript.exe payload.vbs", model.StatusSuspicious, model.RiskHigh, []string{"script-host"}},
		{"DataURI", "src=data:text/html;base64,PHNjcmlwdD4=", model.StatusSuspicious, model.RiskHigh, []string{"base64-payload"}},
		{"MacroAutoOpen", "Sub AutoOpen() ' macro body", model.StatusSuspicious, model.RiskHigh, []string{"macro", "auto-exec"}},
		{"AllHitsNoShortCircuit", "powershell -enc ... shellcode ... vbscript", model.StatusSuspicious, model.RiskHigh, []string{"powershell", "vbscript", "shellcode"}},
		{"HTTPSIsNotRaw", "https://example.com", model.StatusSafe, model.RiskLow, nil},
		{"ErrorPayload", "Error reading DOCX: zip: not a valid zip file", model.StatusSafe, model.RiskLow, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input)

			if got.Status != tt.wantStatus {
				t.Errorf("Classify() status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.Risk != tt.wantRisk {
				t.Errorf("Classify() risk = %v, want %v", got.Risk, tt.wantRisk)
			}
			if len(got.MatchedIndicators) != len(tt.wantIDs) {
				t.Fatalf("Classify() matched = %v, want %v", got.MatchedIndicators, tt.wantIDs)
			}
			for i := range tt.wantIDs {
				if got.MatchedIndicators[i] != tt.wantIDs[i] {
					t.Errorf("Classify() matched[%d] = %q, want %q", i, got.MatchedIndicators[i], tt.wantIDs[i])
				}
			}
			// 状态与命中列表必须一致
			if (got.Status == model.StatusSuspicious) != (len(got.MatchedIndicators) > 0) {
				t.Errorf("status %v inconsistent with matches %v", got.Status, got.MatchedIndicators)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := MustDefault()
	text := "macro AutoOpen http://a.b javascript:void(0)"

	first := c.Classify(text)
	second := c.Classify(text)

	if first.Status != second.Status || first.Risk != second.Risk {
		t.Fatalf("non-deterministic classification: %+v vs %+v", first, second)
	}
	if len(first.MatchedIndicators) != len(second.MatchedIndicators) {
		t.Fatalf("non-deterministic matches: %v vs %v", first.MatchedIndicators, second.MatchedIndicators)
	}
	for i := range first.MatchedIndicators {
		if first.MatchedIndicators[i] != second.MatchedIndicators[i] {
			t.Errorf("match %d differs: %q vs %q", i, first.MatchedIndicators[i], second.MatchedIndicators[i])
		}
	}
}

func TestNewClassifier_InjectedRules(t *testing.T) {
	disabled := false
	c, err := NewClassifier([]Rule{
		{ID: "canary", Pattern: `canary-token`},
		{ID: "off", Pattern: `hello`, Enabled: &disabled},
	})
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	if got := c.Classify("hello world"); got.Status != model.StatusSafe {
		t.Errorf("disabled rule should not fire, got %+v", got)
	}
	if got := c.Classify("found CANARY-TOKEN"); got.Status != model.StatusSuspicious {
		t.Errorf("injected rule should fire, got %+v", got)
	}
	if n := len(c.Rules()); n != 1 {
		t.Errorf("Rules() len = %d, want 1", n)
	}
}

func TestNewClassifier_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"MissingID", []Rule{{Pattern: "x"}}},
		{"MissingPattern", []Rule{{ID: "x"}}},
		{"BadRegexp", []Rule{{ID: "x", Pattern: "(unclosed"}}},
		{"Duplicate", []Rule{{ID: "x", Pattern: "a"}, {ID: "x", Pattern: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClassifier(tt.rules); err == nil {
				t.Errorf("NewClassifier() expected error")
			}
		})
	}
}
