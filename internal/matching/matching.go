// Package matching learns which expense category and description a bank
// statement line should get, keyed by a fragment of its raw description.
package matching

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
)

// Mapping applies to any raw description containing RawPattern, case-insensitively.
// When several match, the longest pattern wins, then the newest.
type Mapping struct {
	ID          uuid.UUID        `json:"id"`
	RawPattern  string           `json:"raw_pattern"`
	Description string           `json:"description"`
	Category    expense.Category `json:"category"`
	CreatedAt   time.Time        `json:"created_at"`
}
