package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// applySort builds an ORDER BY from user-supplied sort parameters, allowing
// only whitelisted columns.
func applySort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool, fallback string) *gorm.DB {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = fallback
	}
	if strings.ToLower(sortOrder) != "asc" {
		sortOrder = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
