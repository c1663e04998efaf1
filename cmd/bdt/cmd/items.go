package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/marcofalcone/basket-deal-tracker/internal/api/client"
)

func itemsCmd() *cobra.Command {
	itemsRoot := &cobra.Command{
		Use:   "items",
		Short: "Manage the basket",
		Long: "Manage basket items. Each item is a product page from the price\n" +
			"comparison site together with the offers scraped from it.",
	}

	itemsRoot.AddCommand(
		itemsListCmd(),
		itemsAddCmd(),
		itemsSetQuantityCmd(),
		itemsDeleteCmd(),
		itemsClearCmd(),
	)

	return itemsRoot
}

func itemsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all basket items",
		Example: `  bdt items list
  bdt items list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListItems(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if resp.Total == 0 {
				fmt.Println("Basket is empty.")
				return nil
			}
			return printItemsTable(resp.Items)
		},
	}
}

func itemsAddCmd() *cobra.Command {
	var (
		itemTitle    string
		itemURL      string
		itemQuantity int
		markupFile   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the basket",
		Long: "Add a product to the basket from saved listing page markup. The\n" +
			"server extracts the competing offers from the markup; when --title is\n" +
			"omitted the product name is taken from the page itself.",
		Example: `  # Add from a saved listing page
  bdt items add --url "https://www.trovaprezzi.it/prezzi_mouse/mx-master-3s" \
    --markup-file page.html --quantity 2

  # Read markup from stdin
  curl -s "$LISTING_URL" | bdt items add --url "$LISTING_URL" --markup-file -`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if itemURL == "" {
				return fmt.Errorf("--url is required")
			}
			markup, err := readMarkup(markupFile)
			if err != nil {
				return err
			}
			c := newClient()
			item, err := c.AddItem(context.Background(), &apiclient.AddItemRequest{
				Title:    itemTitle,
				URL:      itemURL,
				Quantity: itemQuantity,
				Markup:   markup,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(item)
			}
			fmt.Printf("Item added: %s (qty %d, %d offers)\n",
				item.Title, item.Quantity, len(item.Deals))
			return nil
		},
	}
	cmd.Flags().StringVar(&itemTitle, "title", "", "item title (default: derived from markup)")
	cmd.Flags().StringVar(&itemURL, "url", "", "listing page URL")
	cmd.Flags().IntVar(&itemQuantity, "quantity", 1, "desired quantity")
	cmd.Flags().StringVar(&markupFile, "markup-file", "-", "listing page HTML file (- for stdin)")

	return cmd
}

func itemsSetQuantityCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set-quantity <title> <quantity>",
		Short:   "Change an item's quantity",
		Example: `  bdt items set-quantity "Logitech MX Master 3S" 3`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil || quantity < 1 {
				return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
			}
			c := newClient()
			if err := c.UpdateQuantity(context.Background(), args[0], quantity); err != nil {
				return err
			}
			fmt.Printf("Quantity of %q set to %d.\n", args[0], quantity)
			return nil
		},
	}
}

func itemsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <title>",
		Short:   "Remove an item from the basket",
		Example: `  bdt items delete "Logitech MX Master 3S"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteItem(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Item %q deleted.\n", args[0])
			return nil
		},
	}
}

func itemsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Remove every item from the basket",
		Example: `  bdt items clear`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			if err := c.ClearBasket(context.Background()); err != nil {
				return err
			}
			fmt.Println("Basket cleared.")
			return nil
		},
	}
}

func readMarkup(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading markup from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return "", fmt.Errorf("reading markup file: %w", err)
	}
	return string(data), nil
}
