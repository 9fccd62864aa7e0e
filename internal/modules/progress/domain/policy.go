package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "agencycheck/internal/platform/errors"
)

type PolicyKind string

const (
	// PolicyBinary grants half credit below the threshold.
	PolicyBinary PolicyKind = "binary"
	// PolicyGraduated grants count/threshold, truncated to two decimals.
	PolicyGraduated PolicyKind = "graduated"
)

type State string

const (
	StateDone       State = "done"
	StateInProgress State = "inProgress"
	StatePending    State = "pending"
)

type Policy struct {
	Kind      PolicyKind
	Threshold int
}

func BinaryPolicy() Policy {
	return Policy{Kind: PolicyBinary, Threshold: 2}
}

func GraduatedPolicy() Policy {
	return Policy{Kind: PolicyGraduated, Threshold: 3}
}

// ParsePolicy reads "kind:threshold", e.g. "binary:2" or "graduated:3".
// The threshold defaults to 2 for binary and 3 for graduated.
func ParsePolicy(raw string) (Policy, error) {
	kind, threshold, hasThreshold := strings.Cut(strings.TrimSpace(raw), ":")
	var p Policy
	switch PolicyKind(strings.ToLower(kind)) {
	case PolicyBinary:
		p = BinaryPolicy()
	case PolicyGraduated:
		p = GraduatedPolicy()
	default:
		return Policy{}, fmt.Errorf("%w: unknown policy %q", apperrors.ErrInvalidInput, raw)
	}
	if hasThreshold {
		n, err := strconv.Atoi(strings.TrimSpace(threshold))
		if err != nil {
			return Policy{}, fmt.Errorf("%w: policy threshold %q", apperrors.ErrInvalidInput, threshold)
		}
		p.Threshold = n
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.Kind != PolicyBinary && p.Kind != PolicyGraduated {
		return fmt.Errorf("%w: unknown policy kind %q", apperrors.ErrInvalidInput, p.Kind)
	}
	if p.Threshold < 1 {
		return fmt.Errorf("%w: policy threshold must be >= 1", apperrors.ErrInvalidInput)
	}
	return nil
}

func (p Policy) String() string {
	return fmt.Sprintf("%s:%d", p.Kind, p.Threshold)
}

// Version identifies the policy in cache keys and reports.
func (p Policy) Version() string {
	return fmt.Sprintf("%s-%d", p.Kind, p.Threshold)
}

func (p Policy) State(count int) State {
	switch {
	case count <= 0:
		return StatePending
	case count >= p.Threshold:
		return StateDone
	default:
		return StateInProgress
	}
}

// creditHundredths keeps credit in integer hundredths so sums stay exact.
func (p Policy) creditHundredths(count int) int {
	switch p.State(count) {
	case StateDone:
		return 100
	case StatePending:
		return 0
	}
	if p.Kind == PolicyGraduated {
		return 100 * count / p.Threshold
	}
	return 50
}

func (p Policy) Credit(count int) float64 {
	return float64(p.creditHundredths(count)) / 100
}

// Policies selects the policy for each report view.
type Policies struct {
	Theme    Policy
	Category Policy
	Overall  Policy
}

func DefaultPolicies() Policies {
	return Policies{Theme: BinaryPolicy(), Category: BinaryPolicy(), Overall: GraduatedPolicy()}
}

func (ps Policies) Validate() error {
	for _, p := range []Policy{ps.Theme, ps.Category, ps.Overall} {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (ps Policies) Version() string {
	return "theme=" + ps.Theme.Version() + ";category=" + ps.Category.Version() + ";overall=" + ps.Overall.Version()
}
