package portal

import (
	"strings"
	"time"
	"unicode"
)

// ExpiringWindow is how far ahead a file counts as expiring soon.
const ExpiringWindow = 7 * 24 * time.Hour

// LoginHistorySize is how many recent logins LoginHistory returns.
const LoginHistorySize = 5

// FileCard is a file with its display badges.
type FileCard struct {
	File
	New          bool
	Expired      bool
	ExpiringSoon bool
}

// FileCards derives badges for viewer at now. NEW is only shown to company viewers
// that are not yet in the file's read-set.
func FileCards(files []File, viewer User, now time.Time) []FileCard {
	cards := make([]FileCard, 0, len(files))
	for _, f := range files {
		card := FileCard{File: f}
		if viewer.Role == RoleCompany {
			card.New = !f.ReadByCompany(viewer.CompanyID)
		}
		if f.ExpiryDate != nil {
			card.Expired = f.ExpiryDate.Before(now)
			card.ExpiringSoon = !card.Expired && f.ExpiryDate.Before(now.Add(ExpiringWindow))
		}
		cards = append(cards, card)
	}
	return cards
}

type AdminStats struct {
	Companies       int
	Files           int
	Notifications   int
	PendingRequests int
}

func AdminStatsOf(s Snapshot) AdminStats {
	return AdminStats{
		Companies:       len(s.Companies),
		Files:           len(s.Files),
		Notifications:   len(s.Notifications),
		PendingRequests: countPending(s.Requests),
	}
}

type CompanyStats struct {
	Files               int
	UnreadNotifications int
	PendingRequests     int
}

func CompanyStatsOf(s Snapshot) CompanyStats {
	return CompanyStats{
		Files:               len(s.Files),
		UnreadNotifications: UnreadCount(s.Notifications),
		PendingRequests:     countPending(s.Requests),
	}
}

// UnreadCount counts notifications with read=false.
func UnreadCount(ns []Notification) int {
	n := 0
	for _, x := range ns {
		if !x.Read {
			n++
		}
	}
	return n
}

func countPending(rs []DocumentRequest) int {
	n := 0
	for _, r := range rs {
		if r.Status == StatusPending {
			n++
		}
	}
	return n
}

// SearchCompanies matches q case-insensitively against name or email.
func SearchCompanies(companies []Company, q string) []Company {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Company, 0, len(companies))
	for _, c := range companies {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out
}

// FileFilter narrows SearchFiles. Empty fields match everything.
type FileFilter struct {
	Query     string
	CompanyID string
	Category  string
}

func SearchFiles(files []File, f FileFilter) []File {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]File, 0, len(files))
	for _, file := range files {
		if q != "" && !strings.Contains(strings.ToLower(file.Name), q) {
			continue
		}
		if f.CompanyID != "" && file.CompanyID != f.CompanyID {
			continue
		}
		if f.Category != "" && file.Category != f.Category {
			continue
		}
		out = append(out, file)
	}
	return out
}

// LoginHistory returns the most recent login entries of email.
// entries are expected newest first, as the API returns them.
func LoginHistory(entries []ActivityEntry, email string) []ActivityEntry {
	out := make([]ActivityEntry, 0, LoginHistorySize)
	for _, e := range entries {
		if e.Action == "login" && strings.EqualFold(e.User, email) {
			out = append(out, e)
			if len(out) == LoginHistorySize {
				break
			}
		}
	}
	return out
}

// Strength grades a password for the strength meter.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// PasswordStrength scores one point each for length >= 6, length >= 10,
// mixed case, a digit and a symbol. 3 points is medium, 4 or more strong.
func PasswordStrength(pw string) Strength {
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	n := len([]rune(pw))
	for _, ok := range []bool{n >= 6, n >= 10, lower && upper, digit, symbol} {
		if ok {
			score++
		}
	}

	switch {
	case score >= 4:
		return StrengthStrong
	case score == 3:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}
