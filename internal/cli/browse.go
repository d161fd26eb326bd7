package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/render"
)

// terminalEngine names the engine in logs and hooks.
const terminalEngine = "terminal"

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse <item-id>",
		Short: "Explore an item's crafting graph in the terminal",
		Long: `Open the crafting graph of an item in an interactive terminal view.

Move the cursor with the arrow keys, select a node with enter, clear the
selection with esc and press n to re-center the graph on the node under
the cursor. Press q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeItemIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], noCache, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// runBrowse mounts a view over a terminal engine and drives it until the
// user quits or ctx ends.
func (c *CLI) runBrowse(ctx context.Context, focal string, noCache bool, opts ...tea.ProgramOption) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, _, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Log lines would tear the alternate screen; keep only errors while
	// the program owns the terminal.
	quiet := c.Logger.With()
	quiet.SetLevel(log.ErrorLevel)
	runner.Logger = quiet

	term := newTerminal(opts...)
	term.Start()

	view := render.NewView(runner, terminalEngine, term.Factory(), quiet)
	if err := view.Mount(ctx, focal); err != nil {
		_ = term.Quit()
		return reportBrowseError(err)
	}

	runErr := view.Run(ctx)
	if err := term.Quit(); err != nil {
		c.Logger.Debug("terminal exited", "error", err)
	}
	if runErr != nil {
		return reportBrowseError(runErr)
	}
	return nil
}

// reportBrowseError prints a friendly line for the failures a user can act
// on and returns err unchanged.
func reportBrowseError(err error) error {
	var unknown *errors.UnknownItemError
	switch {
	case errors.As(err, &unknown):
		printError("No item %q", unknown.ID)
		printSuggestions(unknown.Suggestions)
	case errors.Is(err, errors.ErrCodeRenderUnavailable):
		printWarning("visualization unavailable")
		printDetail("%s", strings.TrimPrefix(err.Error(), string(errors.ErrCodeRenderUnavailable)+": "))
		printNextStep("Render a static graph instead", "arcforge tree <item-id>")
	}
	return err
}
