package domain

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestValidateGoLive(t *testing.T) {
	tests := []struct {
		name     string
		snapshot GoLiveSnapshot
		valid    bool
		errors   []string
	}{
		{
			name: "fully configured experiment passes",
			snapshot: GoLiveSnapshot{
				Variants: []Variant{
					{Name: "control", TrafficPercentage: 50, IsControl: true},
					{Name: "treatment", TrafficPercentage: 50},
				},
				PrimaryKPI: strPtr("conversion_rate"),
				Targeting:  TargetingRules{Device: []string{"mobile"}},
			},
			valid: true,
		},
		{
			name: "traffic sum mismatch reports actual sum",
			snapshot: GoLiveSnapshot{
				Variants: []Variant{
					{Name: "control", TrafficPercentage: 50},
					{Name: "treatment", TrafficPercentage: 47},
				},
				PrimaryKPI: strPtr("conversion_rate"),
				Targeting:  TargetingRules{Device: []string{"mobile"}},
			},
			valid:  false,
			errors: []string{"Traffic allocation must sum to 100% (currently 97%)"},
		},
		{
			name: "single variant fails both sum and count",
			snapshot: GoLiveSnapshot{
				Variants:   []Variant{{Name: "only", TrafficPercentage: 60}},
				PrimaryKPI: strPtr("conversion_rate"),
				Targeting:  TargetingRules{Country: []string{"IT"}},
			},
			valid: false,
			errors: []string{
				"Traffic allocation must sum to 100% (currently 60%)",
				"Experiment must have at least 2 variants",
			},
		},
		{
			name: "missing primary KPI",
			snapshot: GoLiveSnapshot{
				Variants: []Variant{
					{Name: "control", TrafficPercentage: 50},
					{Name: "treatment", TrafficPercentage: 50},
				},
				Targeting: TargetingRules{Device: []string{"desktop"}},
			},
			valid:  false,
			errors: []string{"Primary KPI must be selected"},
		},
		{
			name: "empty primary KPI string treated as missing",
			snapshot: GoLiveSnapshot{
				Variants: []Variant{
					{Name: "control", TrafficPercentage: 50},
					{Name: "treatment", TrafficPercentage: 50},
				},
				PrimaryKPI: strPtr(""),
				Targeting:  TargetingRules{Device: []string{"desktop"}},
			},
			valid:  false,
			errors: []string{"Primary KPI must be selected"},
		},
		{
			name: "no targeting rules",
			snapshot: GoLiveSnapshot{
				Variants: []Variant{
					{Name: "control", TrafficPercentage: 50},
					{Name: "treatment", TrafficPercentage: 50},
				},
				PrimaryKPI: strPtr("signup_rate"),
			},
			valid:  false,
			errors: []string{"At least one targeting rule must be defined"},
		},
		{
			name:     "everything missing collects all errors in order",
			snapshot: GoLiveSnapshot{},
			valid:    false,
			errors: []string{
				"Traffic allocation must sum to 100% (currently 0%)",
				"Experiment must have at least 2 variants",
				"Primary KPI must be selected",
				"At least one targeting rule must be defined",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateGoLive(tt.snapshot)
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.valid {
				if len(result.Errors) != 0 {
					t.Errorf("expected empty error list, got %v", result.Errors)
				}
				return
			}
			if len(result.Errors) != len(tt.errors) {
				t.Fatalf("got %d errors %v, want %d %v", len(result.Errors), result.Errors, len(tt.errors), tt.errors)
			}
			for i, want := range tt.errors {
				if result.Errors[i] != want {
					t.Errorf("errors[%d] = %q, want %q", i, result.Errors[i], want)
				}
			}
		})
	}
}

func TestValidateDraft(t *testing.T) {
	valid := func() *Experiment {
		return &Experiment{
			Name:       "checkout button color",
			PrimaryKPI: strPtr("conversion_rate"),
			Variants: []Variant{
				{Name: "control", TrafficPercentage: 50, IsControl: true},
				{Name: "green", TrafficPercentage: 50},
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Experiment)
		fullAlloc bool
		wantErr   string
	}{
		{
			name:      "valid experiment",
			mutate:    func(e *Experiment) {},
			fullAlloc: true,
		},
		{
			name:      "missing name",
			mutate:    func(e *Experiment) { e.Name = "" },
			fullAlloc: true,
			wantErr:   "Experiment name is required",
		},
		{
			name:      "one variant",
			mutate:    func(e *Experiment) { e.Variants = e.Variants[:1] },
			fullAlloc: false,
			wantErr:   "At least 2 variants required",
		},
		{
			name:      "unnamed variant",
			mutate:    func(e *Experiment) { e.Variants[1].Name = "" },
			fullAlloc: true,
			wantErr:   "Variant name is required",
		},
		{
			name:      "negative traffic",
			mutate:    func(e *Experiment) { e.Variants[1].TrafficPercentage = -5 },
			fullAlloc: false,
			wantErr:   "Variant traffic percentage must be between 0 and 100 (got -5)",
		},
		{
			name:      "two controls",
			mutate:    func(e *Experiment) { e.Variants[1].IsControl = true },
			fullAlloc: true,
			wantErr:   "At most one variant can be marked as control",
		},
		{
			name:      "incomplete allocation at creation",
			mutate:    func(e *Experiment) { e.Variants[1].TrafficPercentage = 40 },
			fullAlloc: true,
			wantErr:   "Traffic allocation must sum to 100% (currently 90%)",
		},
		{
			name:      "incomplete allocation tolerated mid-draft",
			mutate:    func(e *Experiment) { e.Variants[1].TrafficPercentage = 40 },
			fullAlloc: false,
		},
		{
			name: "too many secondary KPIs",
			mutate: func(e *Experiment) {
				e.SecondaryKPIs = []string{"a", "b", "c", "d", "e", "f"}
			},
			fullAlloc: true,
			wantErr:   "Maximum 5 secondary KPIs allowed",
		},
		{
			name: "secondary overlaps primary",
			mutate: func(e *Experiment) {
				e.SecondaryKPIs = []string{"bounce_rate", "conversion_rate"}
			},
			fullAlloc: true,
			wantErr:   "Secondary KPIs must not include the primary KPI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := valid()
			tt.mutate(exp)
			err := ValidateDraft(exp, tt.fullAlloc)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
