package middleware

import "testing"

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "UCuAXFkgsw1L7xaCfnd5JJOw", "UCuAXFkgsw1L7xaCfnd5JJOw", false},
		{"trims whitespace", "  UC123  ", "UC123", false},
		{"empty", "", "", true},
		{"too long 33", "123456789012345678901234567890123", "", true},
		{"exactly 32", "12345678901234567890123456789012", "12345678901234567890123456789012", false},
		{"invalid chars", "UC test!", "", true},
		{"sql injection", "UC'; DROP--", "", true},
		{"unicode", "UCédef", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateChannelID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateGroupID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid uuid-ish", "grp-7f3a2b1c", "grp-7f3a2b1c", false},
		{"empty", "", "", true},
		{"too long 37", "1234567890123456789012345678901234567", "", true},
		{"exactly 36", "123456789012345678901234567890123456", "123456789012345678901234567890123456", false},
		{"invalid chars", "grp 123", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateGroupID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateBranchAndTeamID(t *testing.T) {
	if _, errMsg := ValidateBranchID("branch-east"); errMsg != "" {
		t.Errorf("unexpected branch error: %s", errMsg)
	}
	if _, errMsg := ValidateBranchID(""); errMsg == "" {
		t.Error("expected error for empty branchId")
	}
	if _, errMsg := ValidateTeamID("team-42"); errMsg != "" {
		t.Errorf("unexpected team error: %s", errMsg)
	}
	if _, errMsg := ValidateTeamID("team 42"); errMsg == "" {
		t.Error("expected error for teamId with space")
	}
}

func TestValidateMetricKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid camelCase", "totalViews", "totalViews", false},
		{"trims whitespace", " engagementRate ", "engagementRate", false},
		{"unknown but well-formed", "notARealMetric", "notARealMetric", false},
		{"empty", "", "", true},
		{"digits", "views7", "", true},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateMetricKey(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty defaults", "", DefaultRankN, false},
		{"valid", "25", 25, false},
		{"clamped to max", "500", MaxRankN, false},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
		{"not a number", "ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateLimit(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
