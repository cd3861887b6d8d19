package filter

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		resource   string
		wantKey    string
		wantAction string
		wantOK     bool
	}{
		{"/caseflow/certifications/ABC123/certify?foo=1", "ABC123", "certify", true},
		{"/caseflow/certifications/ABC123/start", "ABC123", "start", true},
		{"/caseflow/certifications/ABC123/questions?a=1&b=2", "ABC123", "questions", true},
		{"/caseflow/certifications/ABC123/", "ABC123", "", true},
		{"/caseflow/certifications/ABC123/form/9/pdf", "form", "9/pdf", true},
		{"/caseflow/certifications/", "", "", false},
		{"/caseflow/certifications/ABC123", "", "", false},
		{"/other/path", "", "", false},
		{"/caseflow/certification/ABC/start", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		key, action, ok := Classify(tt.resource)
		if ok != tt.wantOK || key != tt.wantKey || action != tt.wantAction {
			t.Errorf("Classify(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.resource, key, action, ok, tt.wantKey, tt.wantAction, tt.wantOK)
		}
	}
}

func TestIsWorkflow(t *testing.T) {
	if !IsWorkflow("/caseflow/certifications/X/start") {
		t.Fatalf("expected workflow resource")
	}
	if IsWorkflow("/caseflow/other") {
		t.Fatalf("unexpected workflow match")
	}
}
