package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/errors"
)

// itemsCommand creates the items command group.
func (c *CLI) itemsCommand() *cobra.Command {
	var filter dataset.Filter

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List dataset items",
		Long: `List the items of the configured dataset as a table.

Use --kind to restrict the listing to items, materials or vendors and
--query to match a substring of the id or display name.`,
		Example: `  arcforge items
  arcforge items --kind material
  arcforge items -q med`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.openCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			items := cat.Find(filter)
			if len(items) == 0 {
				printInfo("No items match")
				return nil
			}
			fmt.Println(itemTable(cat, items))
			printDetail("%s", itemCount(len(items)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Kind, "kind", "k", "", "only list items of this kind (item, material, vendor)")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "substring of the item id or name")

	cmd.AddCommand(c.itemsShowCommand())
	cmd.AddCommand(c.itemsImportCommand())
	return cmd
}

// itemsShowCommand creates the "items show" subcommand.
func (c *CLI) itemsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <item-id>",
		Short:             "Show one item with its inputs, consumers and salvage",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeItemIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.openCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			it, ok := cat.Get(args[0])
			if !ok {
				suggestions := cat.Suggest(args[0], dataset.DefaultSuggestions)
				printError("No item %q", args[0])
				printSuggestions(suggestions)
				return errors.Wrap(errors.ErrCodeNotFound,
					&errors.UnknownItemError{ID: args[0], Suggestions: suggestions}, "show item")
			}
			printItem(cat, it)
			return nil
		},
	}
}

// itemsImportCommand creates the "items import" subcommand.
func (c *CLI) itemsImportCommand() *cobra.Command {
	var (
		format string
		target dataset.MongoSource
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace a MongoDB item collection with a dataset file",
		Long: `Validate a TOML, JSON or YAML dataset file and write its items to a
MongoDB collection, replacing the previous contents. Connection settings
default to the [dataset] table of the config file.`,
		Example: `  arcforge items import items.toml --mongo-uri mongodb://localhost:27017`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if target.URI == "" {
				target.URI = cfg.Dataset.MongoURI
			}
			if target.Database == "" {
				target.Database = cfg.Dataset.MongoDatabase
			}
			if target.Collection == "" {
				target.Collection = cfg.Dataset.MongoCollection
			}

			src := dataset.FileSource{Path: args[0], Format: format}
			items, err := src.Load(ctx)
			if err != nil {
				return err
			}
			if _, err := dataset.NewCatalog(items); err != nil {
				return err
			}

			spinner := newSpinner(ctx, "Importing into "+target.String()+"...")
			spinner.Start()
			if err := target.Store(ctx, items); err != nil {
				spinner.StopWithError("Import failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Imported %s into %s", itemCount(len(items)), target))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format (toml, json, yaml; default from extension)")
	cmd.Flags().StringVar(&target.URI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&target.Database, "database", "", "MongoDB database (default arcforge)")
	cmd.Flags().StringVar(&target.Collection, "collection", "", "MongoDB collection (default items)")
	return cmd
}

// itemTable renders items as a bordered table with input and consumer
// counts.
func itemTable(cat *dataset.Catalog, items []dataset.Item) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.ID,
			it.DisplayName(),
			string(it.NodeKind()),
			it.NodeRarity().String(),
			strconv.Itoa(len(it.Inputs)),
			strconv.Itoa(len(cat.Consumers(it.ID))),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Kind", "Rarity", "Inputs", "Used in").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 3:
				return base.Inherit(rarityStyle(items[row].NodeRarity()))
			case 4, 5:
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

// printItem prints one item's record and its crafting neighbors.
func printItem(cat *dataset.Catalog, it dataset.Item) {
	fmt.Println(StyleTitle.Render(it.DisplayName()))
	printKeyValue("ID", it.ID)
	printKeyValue("Kind", string(it.NodeKind()))
	if r := it.NodeRarity(); r.String() != "" {
		printKeyValue("Rarity", rarityStyle(r).Render(r.String()))
	}
	if it.Type != "" {
		printKeyValue("Type", it.Type)
	}
	if it.SellPrice > 0 {
		printKeyValue("Sell price", strconv.Itoa(it.SellPrice))
	}

	if len(it.Inputs) > 0 {
		fmt.Println()
		fmt.Println(StyleHighlight.Render("Inputs"))
		for _, in := range it.Inputs {
			line := in.Item
			if in.Quantity > 1 {
				line = fmt.Sprintf("%d× %s", in.Quantity, in.Item)
			}
			if in.Relation != "" {
				line += StyleDim.Render(" (" + in.Relation + ")")
			}
			if _, ok := cat.Get(in.Item); !ok {
				line += " " + StyleWarning.Render("missing")
			}
			printFile(line)
		}
	}

	if consumers := cat.Consumers(it.ID); len(consumers) > 0 {
		fmt.Println()
		fmt.Println(StyleHighlight.Render("Used in"))
		for _, cons := range consumers {
			printFile(cons.Item.ID)
		}
	}

	if len(it.Salvage) > 0 {
		fmt.Println()
		fmt.Println(StyleHighlight.Render("Salvages into"))
		printFile(strings.Join(it.Salvage, ", "))
	}

	fmt.Println()
	printNextStep("Render the graph", "arcforge tree "+it.ID)
}
