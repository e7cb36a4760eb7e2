package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/listmembers/internal/config"
	"github.com/rshade/listmembers/internal/logging"
	"github.com/rshade/listmembers/internal/pagination"
	"github.com/rshade/listmembers/internal/source"
	"github.com/rshade/listmembers/internal/tui"
)

const plainFallbackWidth = 100

// ErrFetchFailed is returned by plain output when no members could be loaded.
var ErrFetchFailed = errors.New("failed to load list members")

type membersOptions struct {
	plain    bool
	maxPages int
	pageSize int
	viewer   string
}

func newMembersCmd() *cobra.Command {
	var opts membersOptions

	cmd := &cobra.Command{
		Use:   "members <list-uri>",
		Short: "Show the members of a list",
		Long: `Shows the members of a list one page at a time.

In a terminal the list is interactive: it loads more members as you scroll,
R refreshes, r retries a failed page, e removes a member when you own the list,
and enter opens the member's profile. Without a terminal, or with --plain, the
first pages are printed as text.`,
		Example: `  # Browse interactively as the list owner
  listmembers members at://did:plc:owner/app.bsky.graph.list/3k --viewer did:plc:owner

  # Print up to five pages of 20 members
  listmembers members at://did:plc:owner/app.bsky.graph.list/3k --plain --page-size 20 --max-pages 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMembers(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print members as plain text instead of the interactive view")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "maximum pages to print in plain mode (default from config)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "members per page (default from config)")
	cmd.Flags().StringVar(&opts.viewer, "viewer", "", "viewer ID to act as (default from config)")

	return cmd
}

func runMembers(cmd *cobra.Command, listURI string, opts membersOptions) error {
	if listURI == "" {
		return errNoListURI
	}
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	params := cfg.PaginationParams()
	if opts.pageSize > 0 {
		params.PageSize = opts.pageSize
	}
	if opts.maxPages > 0 {
		params.MaxPages = opts.maxPages
	}
	if err := params.Validate(); err != nil {
		return err
	}

	mode := tui.DetectOutputMode(opts.plain, os.Stdout)
	logger.Debug().Ctx(ctx).
		Str(logging.FieldListURI, listURI).
		Str("mode", mode.String()).
		Int("page_size", params.PageSize).
		Msg("showing list members")

	if mode == tui.OutputModeInteractive && logsToTerminal(cmd, cfg) {
		silent := zerolog.Nop()
		ctx = silent.WithContext(ctx)
	}
	log := contextLogger(ctx)

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn().Ctx(ctx).Err(closeErr).Msg("closing list store")
		}
	}()
	if opts.viewer != "" {
		a.session.SignIn(opts.viewer, "")
	}

	if mode == tui.OutputModeInteractive {
		return runMembersTUI(ctx, a, listURI, params, log)
	}
	return renderMembersPlain(ctx, cmd.OutOrStdout(), a, listURI, params, log)
}

// logsToTerminal reports whether log lines would be written to stderr, where
// they would draw over the interactive screen.
func logsToTerminal(cmd *cobra.Command, cfg *config.Config) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug || cfg.Logging.File == ""
}

func newController(
	ctx context.Context,
	a *app,
	listURI string,
	params pagination.Params,
	log zerolog.Logger,
) *pagination.Controller {
	var ctrl *pagination.Controller
	ctrl = pagination.NewController(ctx, source.Bind(a.source, listURI, params.PageSize),
		pagination.WithLogger(logging.ComponentLogger(log, "pagination")),
		pagination.WithListURI(listURI),
		pagination.WithFullRetry(func() tea.Cmd { return ctrl.Refresh() }),
	)
	return ctrl
}

func runMembersTUI(
	ctx context.Context,
	a *app,
	listURI string,
	params pagination.Params,
	log zerolog.Logger,
) error {
	ctrl := newController(ctx, a, listURI, params, log)
	model := tui.NewMembersModel(ctx, ctrl,
		tui.WithSession(a.session),
		tui.WithEditor(a.editor),
		tui.WithTracker(a.tracker),
		tui.WithModelLogger(logging.ComponentLogger(log, "tui")),
		tui.WithPrefetchThreshold(params.PrefetchThreshold),
		tui.WithClipboard(clipboard.WriteAll),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// renderMembersPlain drives the controller synchronously: the initial fetch,
// then load-more until there are no more pages, a page fails or MaxPages
// pages are loaded.
func renderMembersPlain(
	ctx context.Context,
	w io.Writer,
	a *app,
	listURI string,
	params pagination.Params,
	log zerolog.Logger,
) error {
	ctrl := newController(ctx, a, listURI, params, log)
	ctrl.Settle(ctrl.Start())
	for len(ctrl.Pages()) < params.MaxPages {
		if !ctrl.Settle(ctrl.LoadMore()) {
			break
		}
	}

	state := ctrl.State()
	summary := ctrl.Summary()
	if list := ctrl.List(); list != nil && list.Name != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", list.Name)
	}

	rc := tui.RenderContext{
		Viewer:    a.session.CurrentViewer(),
		List:      ctrl.List(),
		Width:     tui.TerminalWidth(os.Stdout, plainFallbackWidth),
		LastError: state.LastError,
	}
	var renderer tui.PlainRenderer
	for _, row := range ctrl.Rows() {
		_, _ = fmt.Fprintln(w, renderer.RenderRow(rc, row))
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", summary)

	if state.IsError && summary.LoadedMembers == 0 {
		return fmt.Errorf("%w: %w", ErrFetchFailed, state.LastError)
	}
	return nil
}
