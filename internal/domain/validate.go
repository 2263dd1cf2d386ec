package domain

import "fmt"

// GoLiveSnapshot is the slice of experiment state the go-live validator
// inspects.
type GoLiveSnapshot struct {
	Variants   []Variant
	PrimaryKPI *string
	Targeting  TargetingRules
}

// ValidationResult is the outcome of a go-live check.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateGoLive checks whether an experiment is ready to go live. All
// checks run; every failed condition contributes an error so callers can
// display them together. Error order is fixed: traffic sum, variant
// count, primary KPI, targeting.
func ValidateGoLive(snapshot GoLiveSnapshot) ValidationResult {
	var errs []string

	totalTraffic := 0
	for _, v := range snapshot.Variants {
		totalTraffic += v.TrafficPercentage
	}
	if totalTraffic != 100 {
		errs = append(errs, fmt.Sprintf("Traffic allocation must sum to 100%% (currently %d%%)", totalTraffic))
	}

	if len(snapshot.Variants) < 2 {
		errs = append(errs, "Experiment must have at least 2 variants")
	}

	if snapshot.PrimaryKPI == nil || *snapshot.PrimaryKPI == "" {
		errs = append(errs, "Primary KPI must be selected")
	}

	if !snapshot.Targeting.HasAnyRule() {
		errs = append(errs, "At least one targeting rule must be defined")
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// MaxSecondaryKPIs is the maximum number of secondary KPIs per experiment.
const MaxSecondaryKPIs = 5

// ValidateDraft checks the structural rules an experiment must satisfy at
// creation or while being edited in draft. Traffic must allocate fully at
// creation; intermediate draft edits may leave the split incomplete until
// go-live. Returns nil when valid.
func ValidateDraft(e *Experiment, requireFullAllocation bool) *ValidationError {
	var errs []string

	if e.Name == "" {
		errs = append(errs, "Experiment name is required")
	}

	if len(e.Variants) < 2 {
		errs = append(errs, "At least 2 variants required")
	}

	controls := 0
	totalTraffic := 0
	for _, v := range e.Variants {
		if v.Name == "" {
			errs = append(errs, "Variant name is required")
		}
		if v.TrafficPercentage < 0 || v.TrafficPercentage > 100 {
			errs = append(errs, fmt.Sprintf("Variant traffic percentage must be between 0 and 100 (got %d)", v.TrafficPercentage))
		}
		if v.IsControl {
			controls++
		}
		totalTraffic += v.TrafficPercentage
	}
	if controls > 1 {
		errs = append(errs, "At most one variant can be marked as control")
	}
	if requireFullAllocation && totalTraffic != 100 {
		errs = append(errs, fmt.Sprintf("Traffic allocation must sum to 100%% (currently %d%%)", totalTraffic))
	}

	if len(e.SecondaryKPIs) > MaxSecondaryKPIs {
		errs = append(errs, fmt.Sprintf("Maximum %d secondary KPIs allowed", MaxSecondaryKPIs))
	}
	if e.PrimaryKPI != nil && *e.PrimaryKPI != "" {
		for _, kpi := range e.SecondaryKPIs {
			if kpi == *e.PrimaryKPI {
				errs = append(errs, "Secondary KPIs must not include the primary KPI")
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
