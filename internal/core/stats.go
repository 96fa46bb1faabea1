// Package core holds the dashboard domain: the twelve summary counters, their
// normalization from loosely typed source rows, and the presentation mapping.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Key names one summary counter. It matches the column name in the stats table.
type Key string

const (
	TotalRegistered  Key = "total_registered"
	Visitors         Key = "visitors"
	AppliedToJob     Key = "applied_to_job"
	Application      Key = "application"
	UniqueApplicant  Key = "unique_applicant"
	TotalCompanies   Key = "total_companies"
	DirectPayment    Key = "direct_payment"
	PaidByApplicants Key = "paid_by_applicants"
	ProUsersToday    Key = "pro_users_today"
	AmountProUsers   Key = "amount_pro_users"
	TotalRevenue     Key = "total_revenue"
	ProSeekerTotal   Key = "pro_seeker_total"
)

// Keys lists every counter in display order.
var Keys = [...]Key{
	TotalRegistered,
	Visitors,
	AppliedToJob,
	Application,
	UniqueApplicant,
	TotalCompanies,
	DirectPayment,
	PaidByApplicants,
	ProUsersToday,
	AmountProUsers,
	TotalRevenue,
	ProSeekerTotal,
}

// RawRow is one row as a source returns it: column name to driver value.
// Extra columns are allowed and ignored by Normalize.
type RawRow map[string]any

// FallbackRow returns a fresh row with every counter set to zero. It stands in
// for the latest row whenever the source cannot supply one.
func FallbackRow() RawRow {
	row := make(RawRow, len(Keys))
	for _, k := range Keys {
		row[string(k)] = int64(0)
	}
	return row
}

// Counters is a normalized summary row. Every value is a non-negative integer.
type Counters struct {
	TotalRegistered  int64 `json:"total_registered"`
	Visitors         int64 `json:"visitors"`
	AppliedToJob     int64 `json:"applied_to_job"`
	Application      int64 `json:"application"`
	UniqueApplicant  int64 `json:"unique_applicant"`
	TotalCompanies   int64 `json:"total_companies"`
	DirectPayment    int64 `json:"direct_payment"`
	PaidByApplicants int64 `json:"paid_by_applicants"`
	ProUsersToday    int64 `json:"pro_users_today"`
	AmountProUsers   int64 `json:"amount_pro_users"`
	TotalRevenue     int64 `json:"total_revenue"`
	ProSeekerTotal   int64 `json:"pro_seeker_total"`
}

// Value returns the counter for k, or 0 for an unknown key.
func (c Counters) Value(k Key) int64 {
	if p := c.field(k); p != nil {
		return *p
	}
	return 0
}

func (c *Counters) field(k Key) *int64 {
	switch k {
	case TotalRegistered:
		return &c.TotalRegistered
	case Visitors:
		return &c.Visitors
	case AppliedToJob:
		return &c.AppliedToJob
	case Application:
		return &c.Application
	case UniqueApplicant:
		return &c.UniqueApplicant
	case TotalCompanies:
		return &c.TotalCompanies
	case DirectPayment:
		return &c.DirectPayment
	case PaidByApplicants:
		return &c.PaidByApplicants
	case ProUsersToday:
		return &c.ProUsersToday
	case AmountProUsers:
		return &c.AmountProUsers
	case TotalRevenue:
		return &c.TotalRevenue
	case ProSeekerTotal:
		return &c.ProSeekerTotal
	}
	return nil
}

// Normalize coerces every counter in row to a non-negative integer. Absent and
// null values become 0; fractional values are truncated toward zero.
func Normalize(row RawRow) Counters {
	var c Counters
	for _, k := range Keys {
		v, ok := row[string(k)]
		if !ok {
			continue
		}
		*c.field(k) = ToCount(v)
	}
	return c
}

// ToCount converts a single driver value into a counter. Anything that is not a
// finite non-negative number (nil, booleans, NaN, negatives, unparseable text)
// yields 0. Values beyond the int64 range saturate.
func ToCount(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return clampInt(int64(n))
	case int8:
		return clampInt(int64(n))
	case int16:
		return clampInt(int64(n))
	case int32:
		return clampInt(int64(n))
	case int64:
		return clampInt(n)
	case uint:
		return clampUint(uint64(n))
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return clampUint(n)
	case float32:
		return truncFloat(float64(n))
	case float64:
		return truncFloat(n)
	case json.Number:
		return parseCount(string(n))
	case string:
		return parseCount(n)
	case []byte:
		return parseCount(string(n))
	}
	return 0
}

func clampInt(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func clampUint(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

func truncFloat(f float64) int64 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(f)
}

// parseCount reads decimal text. Integers are parsed exactly so large values
// keep full precision; anything else goes through float parsing.
func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt(i)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return clampUint(u)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return truncFloat(f)
}
