package shopper

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/guiamercado/guiamercado-backend/internal/lists"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
)

const (
	dateLayout = "02/01/2006"
	noValue    = "-"
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

// formatPrice renders a price the Brazilian way, e.g. "R$ 19,90".
func formatPrice(v float64) string {
	return "R$ " + strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1)
}

func formatDistance(km *float64) string {
	if km == nil {
		return noValue
	}
	return decimal.NewFromFloat(*km).StringFixed(1) + " km"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return noValue
	}
	return *s
}

func (a *App) renderDashboard(view *Dashboard) {
	if view.Selected != nil {
		a.printf("shopping at: %s\n\n", view.Selected.Name)
	} else {
		a.printf("no supermarket selected\n\n")
	}

	a.printf("recent prices\n")
	a.renderPrices(view.Prices)

	a.printf("\nsupermarkets\n")
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tDISTANCE")
	for _, r := range view.Supermarkets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Item.ID, r.Item.Name, formatDistance(r.DistanceKm))
	}
	_ = tw.Flush()
	if view.Location.State == geo.StateFailed {
		a.printf("(location unavailable, showing by name)\n")
	}
}

func (a *App) renderPrices(entries []prices.PriceEntryDTO) {
	if len(entries) == 0 {
		a.printf("no prices yet\n")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "DATE\tPRODUCT\tSUPERMARKET\tPRICE\tBY")
	for _, e := range entries {
		product, market, author := noValue, noValue, noValue
		if e.Product != nil {
			product = e.Product.Name
		}
		if e.Supermarket != nil {
			market = e.Supermarket.Name
		}
		if e.User != nil {
			author = e.User.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date.Format(dateLayout), product, market, formatPrice(e.Price), author)
	}
	_ = tw.Flush()
}

func (a *App) renderProducts(items []products.ProductDTO) {
	if len(items) == 0 {
		a.printf("no products found\n")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tBARCODE")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, orDash(p.Category), orDash(p.Barcode))
	}
	_ = tw.Flush()
}

func (a *App) renderNumberedProducts(items []products.ProductDTO) {
	tw := a.table()
	for i, p := range items {
		fmt.Fprintf(tw, "%d)\t%s\t%s\n", i+1, p.Name, orDash(p.Category))
	}
	_ = tw.Flush()
}

func (a *App) renderSupermarkets(items []supermarkets.SupermarketDTO, selected *supermarkets.SupermarketDTO) {
	if len(items) == 0 {
		a.printf("no supermarkets found\n")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "\tID\tNAME\tADDRESS\tDISTANCE")
	for _, m := range items {
		mark := ""
		if selected != nil && selected.ID == m.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, m.ID, m.Name, orDash(m.Address), formatDistance(m.DistanceKm))
	}
	_ = tw.Flush()
}

func (a *App) renderListIndex(items []lists.ListSummaryDTO) {
	if len(items) == 0 {
		a.printf("no lists yet\n")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tITEMS\tUPDATED")
	for _, l := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ID, l.Name, l.ItemCount, l.UpdatedAt.Format(dateLayout))
	}
	_ = tw.Flush()
}

func (a *App) renderList(list *lists.ListDTO) {
	a.printf("%s (%s)\n", list.Name, list.ID)
	if len(list.Items) == 0 {
		a.printf("  empty\n")
		return
	}
	tw := a.table()
	for _, item := range list.Items {
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Fprintf(tw, "  %s\t%s\tx%d\t%s\n", box, name, item.Quantity, item.ID)
	}
	_ = tw.Flush()
}
