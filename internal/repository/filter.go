package repository

import (
	"strings"

	"gorm.io/gorm"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// CustomerFilter is the shared search/company/sort query used by the list
// view, every export format and the JSON API.
type CustomerFilter struct {
	Search  string
	Company string
	Sort    SortDirection
}

// ParseCustomerFilter normalizes raw query parameters. Any sort value other
// than "asc" falls back to newest first.
func ParseCustomerFilter(search, company, sort string) CustomerFilter {
	f := CustomerFilter{
		Search:  strings.TrimSpace(search),
		Company: strings.TrimSpace(company),
		Sort:    SortDesc,
	}
	if strings.EqualFold(strings.TrimSpace(sort), string(SortAsc)) {
		f.Sort = SortAsc
	}
	return f
}

// Apply adds the filter's WHERE and ORDER BY clauses to a customers query.
// Search text is matched literally, LIKE wildcards included.
func (f CustomerFilter) Apply(db *gorm.DB) *gorm.DB {
	postgres := strings.EqualFold(db.Dialector.Name(), "postgres")
	if f.Search != "" {
		if postgres {
			like := containsPattern(f.Search)
			db = db.Where("name ILIKE ? ESCAPE '!' OR email ILIKE ? ESCAPE '!' OR company ILIKE ? ESCAPE '!'", like, like, like)
		} else {
			like := containsPattern(strings.ToLower(f.Search))
			db = db.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(company) LIKE ? ESCAPE '!'", like, like, like)
		}
	}
	if f.Company != "" {
		if postgres {
			db = db.Where("company ILIKE ? ESCAPE '!'", containsPattern(f.Company))
		} else {
			db = db.Where("LOWER(company) LIKE ? ESCAPE '!'", containsPattern(strings.ToLower(f.Company)))
		}
	}
	dir := "DESC"
	if f.Sort == SortAsc {
		dir = "ASC"
	}
	return db.Order("created_at " + dir).Order("id " + dir)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a substring LIKE pattern escaped for ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// IsZero reports whether the filter matches every customer
func (f CustomerFilter) IsZero() bool {
	return f.Search == "" && f.Company == ""
}
