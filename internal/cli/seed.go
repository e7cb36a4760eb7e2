package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/listmembers/internal/config"
	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/source/sqlite"
)

const (
	defaultSeedLists   = 1
	defaultSeedMembers = 120
	defaultSeedOwner   = "did:plc:owner"
	seedBatchSize      = 100
	seedConcurrency    = 4
)

// listURIFormat builds record URIs: at://<creator>/app.bsky.graph.list/<key>.
const listURIFormat = "at://%s/app.bsky.graph.list/%s"

type seedOptions struct {
	lists   int
	members int
	owner   string
	name    string
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo lists in the local store",
		Long: `Creates lists owned by --owner and fills them with generated members.
Every third member is marked as not editable so the edit affordance can be
seen switching on and off. The URIs of the new lists are printed.`,
		Example: `  # One list with 120 members
  listmembers seed

  # Three lists of 500 members owned by a given viewer
  listmembers seed --lists 3 --members 500 --owner did:plc:alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.lists, "lists", defaultSeedLists, "number of lists to create")
	cmd.Flags().IntVar(&opts.members, "members", defaultSeedMembers, "members per list")
	cmd.Flags().StringVar(&opts.owner, "owner", defaultSeedOwner, "creator ID of the new lists")
	cmd.Flags().StringVar(&opts.name, "name", "Demo list", "list name prefix")

	return cmd
}

func runSeed(cmd *cobra.Command, opts seedOptions) error {
	if opts.lists < 1 {
		return fmt.Errorf("--lists must be at least 1, got %d", opts.lists)
	}
	if opts.members < 0 {
		return fmt.Errorf("--members cannot be negative, got %d", opts.members)
	}
	if strings.TrimSpace(opts.owner) == "" {
		return errors.New("--owner is required")
	}

	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()
	store, err := sqlite.Open(cfg.Source.Database)
	if err != nil {
		return fmt.Errorf("opening list store: %w", err)
	}
	defer func() { _ = store.Close() }()

	uris := make([]string, opts.lists)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for i := range uris {
		list := domain.ListIdentity{
			URI:           fmt.Sprintf(listURIFormat, opts.owner, uuid.NewString()),
			Name:          seedListName(opts.name, i, opts.lists),
			CreatorID:     opts.owner,
			CreatorHandle: handleFor(opts.owner),
		}
		uris[i] = list.URI
		g.Go(func() error {
			return seedList(gctx, store, list, opts.members)
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	logger.Info().Ctx(ctx).
		Int("lists", opts.lists).
		Int("members", opts.members).
		Msg("seeded lists")
	for _, uri := range uris {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), uri)
	}
	return nil
}

func seedList(ctx context.Context, store *sqlite.Store, list domain.ListIdentity, n int) error {
	if err := store.CreateList(ctx, list); err != nil {
		return err
	}
	batch := make([]domain.Member, 0, seedBatchSize)
	for i := 0; i < n; i++ {
		batch = append(batch, seedMember(i))
		if len(batch) == seedBatchSize || i == n-1 {
			if err := store.AddMembers(ctx, list.URI, batch...); err != nil {
				return fmt.Errorf("seeding %s: %w", list.URI, err)
			}
			batch = batch[:0]
		}
	}
	return nil
}

func seedMember(i int) domain.Member {
	id := uuid.New()
	key := strings.ReplaceAll(id.String(), "-", "")[:12]
	return domain.Member{
		ID:           "did:plc:" + key,
		Handle:       fmt.Sprintf("member%d.test", i+1),
		DisplayName:  fmt.Sprintf("Member %d", i+1),
		Description:  fmt.Sprintf("Demo member **%d**.\n\nJoined from the seed command.", i+1),
		EditEligible: i%3 != 2,
	}
}

func seedListName(prefix string, i, total int) string {
	if total == 1 {
		return prefix
	}
	return fmt.Sprintf("%s %d", prefix, i+1)
}

// handleFor derives a display handle from a DID, e.g. did:plc:alice -> alice.test.
func handleFor(id string) string {
	if idx := strings.LastIndex(id, ":"); idx >= 0 {
		id = id[idx+1:]
	}
	return id + ".test"
}
