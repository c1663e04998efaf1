package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printItemsTable(items []domain.Item) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TITLE\tQTY\tOFFERS\tBEST UNIT PRICE\tURL\n")
	for i := range items {
		best := "-"
		if p, ok := cheapestUnitPrice(items[i].Deals); ok {
			best = fmt.Sprintf("€%.2f", p)
		}
		tw.writef("%s\t%d\t%d\t%s\t%s\n",
			truncate(items[i].Title, 40),
			items[i].Quantity,
			len(items[i].Deals),
			best,
			truncate(items[i].URL, 50),
		)
	}
	return tw.finish()
}

func cheapestUnitPrice(deals []domain.Deal) (float64, bool) {
	best := 0.0
	found := false
	for i := range deals {
		if !deals[i].Availability {
			continue
		}
		if !found || deals[i].Price < best {
			best = deals[i].Price
			found = true
		}
	}
	return best, found
}

func printResults(r *domain.DealResults) error {
	tw := newTabWriter(os.Stdout)

	tw.writef("BEST INDIVIDUAL DEALS\n")
	tw.writef("ITEM\tSELLER\tUNIT\tTOTAL\t+DELIVERY\n")
	for title, deals := range r.Individual {
		if len(deals) == 0 {
			tw.writef("%s\t-\t-\t-\t-\n", truncate(title, 40))
			continue
		}
		d := &deals[0]
		tw.writef("%s\t%s\t€%.2f\t€%.2f\t€%.2f\n",
			truncate(title, 40),
			d.Seller,
			d.Price,
			d.TotalPrice,
			d.TotalPricePlusDelivery,
		)
	}

	if len(r.Cumulative) > 0 {
		tw.writef("\nBEST CUMULATIVE DEALS\n")
		tw.writef("SELLER\tBUNDLE\t+DELIVERY\n")
		for i := range r.Cumulative {
			so := &r.Cumulative[i]
			tw.writef("%s\t€%.2f\t€%.2f\n",
				so.Seller,
				so.Offer.CumulativePrice,
				so.Offer.CumulativePricePlusDelivery,
			)
		}
	}

	tw.writef("\nBEST OVERALL:\t%s\t€%.2f\n",
		r.Overall.BestDealType,
		r.Overall.BestTotalPrice,
	)
	tw.writef("Computed at:\t%s\n", r.ComputedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printExtractedDeals(deals []domain.Deal) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SELLER\tPRICE\tDELIVERY\tFREE OVER\tAVAILABLE\tREVIEWS\n")
	for i := range deals {
		freeOver := "-"
		if deals[i].FreeDelivery != nil {
			freeOver = fmt.Sprintf("€%.2f", *deals[i].FreeDelivery)
		}
		tw.writef("%s\t€%.2f\t€%.2f\t%s\t%v\t%d\n",
			deals[i].Seller,
			deals[i].Price,
			deals[i].DeliveryPrice,
			freeOver,
			deals[i].Availability,
			deals[i].SellerReviews,
		)
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tITEMS\tSTARTED\tCOMPLETED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		items := "-"
		if r.RowsAffected != nil {
			items = fmt.Sprintf("%d", *r.RowsAffected)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			items,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
