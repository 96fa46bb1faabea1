package core

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// TakaSign prefixes currency amounts.
const TakaSign = "৳"

var labels = map[Key]string{
	TotalRegistered:  "TOTAL REGISTERED",
	Visitors:         "VISITORS",
	AppliedToJob:     "APPLIED TO JOB",
	Application:      "TOTAL APPLICATIONS",
	UniqueApplicant:  "UNIQUE APPLICANTS",
	TotalCompanies:   "TOTAL COMPANIES",
	DirectPayment:    "DIRECT PAYMENT",
	PaidByApplicants: "PAID BY APPLICANTS",
	ProUsersToday:    "PRO USERS TODAY",
	AmountProUsers:   "AMOUNT PRO USERS",
	TotalRevenue:     "TOTAL REVENUE",
	ProSeekerTotal:   "PRO SEEKER TOTAL (APPLIED)",
}

// Label returns the display label for a counter name. Names without a fixed
// label are shown uppercased with underscores replaced by spaces.
func Label(name string) string {
	if l, ok := labels[Key(name)]; ok {
		return l
	}
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}

// FormatCount renders n with thousands separators: 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatTaka renders a currency amount: 1234567 -> "৳1,234,567".
func FormatTaka(n int64) string {
	return TakaSign + humanize.Comma(n)
}

// FormatValue formats the counter k for display.
func FormatValue(k Key, n int64) string {
	if k == TotalRevenue {
		return FormatTaka(n)
	}
	return FormatCount(n)
}
