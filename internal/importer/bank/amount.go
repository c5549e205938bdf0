package bank

import (
	"strings"

	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// parseAmount reads a statement amount such as "-1,234.56", "£12.50",
// "-£4.20" or "12.50 GBP".
func parseAmount(s string) (money.Amount, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "GBP")
	clean = strings.ReplaceAll(clean, "£", "")
	clean = strings.ReplaceAll(clean, " ", "")

	return money.Parse(clean)
}
