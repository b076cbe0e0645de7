package console

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

// Catalog prints items as a table, marking the selected id.
func (c *Console) Catalog(items []models.CatalogItem, selected *int64, currency string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(items) == 0 {
		fmt.Fprintln(c.out, "No workflows found.")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tWORKFLOW\tCATEGORY\tPRICE")
	for _, item := range items {
		marker := ""
		if selected != nil && *selected == item.ID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s %s\t%s\t%s\n", marker, item.ID, item.Icon, item.Name, item.Category, Money(item.Price, currency))
	}
	tw.Flush()
}

// Money formats an amount with two decimals and the currency code.
func Money(amount decimal.Decimal, currency string) string {
	return strings.TrimSpace(currency + " " + amount.StringFixed(2))
}
