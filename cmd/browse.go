package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/stridezone/storefront/catalog"
)

func runBrowse(c context.Context, search, category string) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.close(c)

	client := catalog.NewClient(a.cfg.Backend.BaseURL)
	products, err := client.ListProducts(c, catalog.Query{Search: search, Category: category})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		stock := fmt.Sprintf("%d", p.Stock)
		if p.Stock <= 0 {
			stock = "out of stock"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), stock)
	}
	return w.Flush()
}
