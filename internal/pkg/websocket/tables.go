package websocket

import (
	"fmt"
	"strings"

	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

// WatchedTables are the tables whose changes are published
var WatchedTables = []string{
	"users", "profiles", "reviews", "content", "transactions", "payouts", "refunds", "fees",
	"institution_profiles", "institution_submissions", "institution_faculty",
	"courses", "enrollments", "inquiries", "admissions",
}

const (
	roleAdmin       = "admin"
	roleInstitution = "institution"
)

// institutionTables may be watched by institution accounts, scoped to their own rows
var institutionTables = map[string]bool{
	"courses":             true,
	"enrollments":         true,
	"inquiries":           true,
	"admissions":          true,
	"institution_faculty": true,
}

func isWatched(table string) bool {
	for _, t := range WatchedTables {
		if t == table {
			return true
		}
	}
	return false
}

// ParseTables splits a comma separated list, dropping blanks and duplicates
func ParseTables(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// AuthorizeTables checks that role may watch every table. Admins may watch
// any published table and institution accounts the operations tables.
// Other roles may not watch anything.
func AuthorizeTables(role string, tables []string) error {
	if len(tables) == 0 {
		return apperrors.NewBadRequestError("at least one table is required")
	}
	for _, t := range tables {
		if !isWatched(t) {
			return apperrors.NewBadRequestError(fmt.Sprintf("unknown table %q", t))
		}
		switch {
		case role == roleAdmin:
		case role == roleInstitution && institutionTables[t]:
		default:
			return apperrors.NewForbiddenError(fmt.Sprintf("not allowed to watch %q", t))
		}
	}
	return nil
}

// originAllowed matches the Origin header against the configured list. An
// empty list or a "*" entry allows every origin, as the CORS middleware does.
func originAllowed(origins []string, origin string) bool {
	if origin == "" || len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
