package stations

import (
	"fmt"
	"strings"

	"github.com/evjoints/admin-backend/pkg/enums"
)

// View selects the default predicate of a station listing.
type View int

const (
	// ViewDirectory is the public-facing listing: approved stations only.
	ViewDirectory View = iota
	// ViewReview is the admin review listing: approval state is a filter.
	ViewReview
)

// ListFilters is the optional filter bag shared by the count, id-page, and
// export queries. Build always returns the same predicate and bind order for
// the same input so the three queries see one logical row set.
type ListFilters struct {
	View          View
	Status        string // Approved | Rejected | Pending | All | ""
	UsageType     string // PUBLIC | PRIVATE
	NetworkID     *int64
	AddedBy       string // creator type
	ChargerTypeID *int64
	StationType   string // landmark tag
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD, inclusive of the whole day
	Search        string
}

// statusByLabel maps the human filter values the dashboard sends to stored
// approval states. "All" and empty mean no restriction.
var statusByLabel = map[string]enums.ApprovalStatus{
	"approved": enums.ApprovalApproved,
	"rejected": enums.ApprovalRejected,
	"pending":  enums.ApprovalPending,
}

// searchColumns are the OR branches of the free-text search, in bind order.
// Each receives its own copy of the %term% parameter.
var searchColumns = []string{
	"LOWER(cs.name)",
	"LOWER(COALESCE(cs.landmark, ''))",
	"LOWER(cs.mobile)",
	"LOWER(COALESCE(n.name, ''))",
	"LOWER(COALESCE(c.first_name, '') || ' ' || COALESCE(c.last_name, ''))",
	"LOWER(cs.type)",
	"LOWER('CS-' || CAST(cs.id AS TEXT))",
	"CAST(cs.latitude AS TEXT)",
	"CAST(cs.longitude AS TEXT)",
}

// Build renders the WHERE predicate and its ordered bind parameters. Filter
// values travel only as binds; column identifiers are fixed here.
func (f ListFilters) Build() (string, []any) {
	clauses := []string{"cs.approved_status <> ?"}
	params := []any{string(enums.ApprovalDeleted)}

	switch f.View {
	case ViewDirectory:
		clauses = append(clauses, "cs.approved_status = ?")
		params = append(params, string(enums.ApprovalApproved))
	default:
		if status, ok := statusByLabel[strings.ToLower(strings.TrimSpace(f.Status))]; ok {
			clauses = append(clauses, "cs.approved_status = ?")
			params = append(params, string(status))
		}
	}

	if f.UsageType != "" {
		clauses = append(clauses, "cs.type = ?")
		params = append(params, strings.ToUpper(strings.TrimSpace(f.UsageType)))
	}
	if f.NetworkID != nil {
		clauses = append(clauses, "cs.network_id = ?")
		params = append(params, *f.NetworkID)
	}
	if f.AddedBy != "" {
		clauses = append(clauses, "cs.user_type = ?")
		params = append(params, strings.TrimSpace(f.AddedBy))
	}
	if f.ChargerTypeID != nil {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM charging_point cp JOIN connector co ON co.charge_point_id = cp.id WHERE cp.station_id = cs.id AND co.charger_type_id = ?)")
		params = append(params, *f.ChargerTypeID)
	}
	if f.StationType != "" {
		clauses = append(clauses, "LOWER(COALESCE(cs.landmark, '')) LIKE ?")
		params = append(params, likeTerm(f.StationType))
	}
	if f.StartDate != "" {
		clauses = append(clauses, "cs.created_at >= ?")
		params = append(params, f.StartDate+" 00:00:00")
	}
	if f.EndDate != "" {
		// Inclusive of the whole calendar day.
		clauses = append(clauses, "cs.created_at <= ?")
		params = append(params, f.EndDate+" 23:59:59")
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		branches := make([]string, 0, len(searchColumns))
		for _, column := range searchColumns {
			branches = append(branches, column+" LIKE ?")
			params = append(params, likeTerm(term))
		}
		clauses = append(clauses, "("+strings.Join(branches, " OR ")+")")
	}

	return strings.Join(clauses, " AND "), params
}

func likeTerm(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// SortParams is the resolved ORDER BY input.
type SortParams struct {
	By        string
	Direction string
}

// sortColumns whitelists caller sort keys. Caller input never reaches the SQL
// as an identifier; anything unknown falls back to newest-first.
var sortColumns = map[string]string{
	"name":      "cs.name",
	"network":   "n.name",
	"usageType": "cs.type",
	"status":    "cs.approved_status",
	"createdAt": "cs.created_at",
}

const defaultOrder = "cs.created_at DESC, cs.id DESC"

// OrderBy resolves the sort input to a safe ORDER BY expression.
func (s SortParams) OrderBy() string {
	column, ok := sortColumns[s.By]
	if !ok {
		return defaultOrder
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(s.Direction), "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, cs.id DESC", column, direction)
}
