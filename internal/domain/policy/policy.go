// Package policy holds the per-role rules the calculators consult instead of
// branching on role names.
package policy

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StandardAnnualLeaveDays is the statutory yearly paid-leave entitlement.
const StandardAnnualLeaveDays = 18

// RolePolicy is the rule set applied to every employee holding a role.
type RolePolicy struct {
	// MonthlyAccrual is the number of paid-leave days earned per month worked.
	MonthlyAccrual decimal.Decimal

	// AccrueSinceHire counts accrual months from the hire date rather than
	// from the first day of the reference year.
	AccrueSinceHire bool

	// SaturdayCountsAsAbsence marks a Saturday without presence as an absence.
	SaturdayCountsAsAbsence bool
}

// Standard returns the default policy: annualDays spread over twelve months.
func Standard(annualDays int) RolePolicy {
	return RolePolicy{
		MonthlyAccrual: decimal.NewFromInt(int64(annualDays)).Div(decimal.NewFromInt(12)),
	}
}

// Table resolves roles to policies. Lookups are case-insensitive and unknown
// roles get the fallback.
type Table struct {
	fallback RolePolicy
	roles    map[string]RolePolicy
}

func NewTable(fallback RolePolicy) *Table {
	return &Table{fallback: fallback, roles: make(map[string]RolePolicy)}
}

func (t *Table) Set(role string, p RolePolicy) {
	t.roles[normalize(role)] = p
}

func (t *Table) For(role string) RolePolicy {
	if p, ok := t.roles[normalize(role)]; ok {
		return p
	}
	return t.fallback
}

func (t *Table) Fallback() RolePolicy {
	return t.fallback
}

// Options configures FromOptions. Role lists hold role names as stored on the
// employee record.
type Options struct {
	AnnualLeaveDays          int
	SupervisorRoles          []string
	SupervisorMonthlyAccrual decimal.Decimal
	SaturdayAbsenceRoles     []string
}

// FromOptions builds the table used in production: supervisors accrue at
// their own monthly rate from their hire date, every other role at the
// standard rate from the start of the year.
func FromOptions(opts Options) *Table {
	annual := opts.AnnualLeaveDays
	if annual <= 0 {
		annual = StandardAnnualLeaveDays
	}
	t := NewTable(Standard(annual))

	for _, role := range opts.SupervisorRoles {
		t.Set(role, RolePolicy{
			MonthlyAccrual:  opts.SupervisorMonthlyAccrual,
			AccrueSinceHire: true,
		})
	}

	for _, role := range opts.SaturdayAbsenceRoles {
		p := t.For(role)
		p.SaturdayCountsAsAbsence = true
		t.Set(role, p)
	}

	return t
}

// SplitRoles parses a comma separated role list, dropping blanks.
func SplitRoles(csv string) []string {
	var roles []string
	for _, r := range strings.Split(csv, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
