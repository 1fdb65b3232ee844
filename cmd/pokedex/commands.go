package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/Pokedex/internal/bootstrap"
	"github.com/dharsanguruparan/Pokedex/internal/client"
	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/model"
	"github.com/dharsanguruparan/Pokedex/internal/storage"
)

type rootOptions struct {
	apiURL   string
	latency  time.Duration
	pageSize int
	verbose  bool
}

func newRootCommand() *cobra.Command {
	defaults := config.Defaults()
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pokedex",
		Short: "Pokedex command line client",
		Long: `pokedex talks to a running Pokedex API: list, search and filter the catalog,
show a record with its neighbours, create records, and seed a store from a JSON file.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("POKEDEX_API_URL", defaults.APIBaseURL), "Base URL of the Pokedex API")
	cmd.PersistentFlags().DurationVar(&opts.latency, "latency", 0, "Delay applied after each browse round trip")
	cmd.PersistentFlags().IntVar(&opts.pageSize, "limit", defaults.DefaultPageSize, "Records per page")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests to stderr")
	cmd.AddCommand(
		newListCmd(opts),
		newSearchCmd(opts),
		newTypeCmd(opts),
		newShowCmd(opts),
		newCreateCmd(opts),
		newBrowseCmd(opts),
		newSeedCmd(),
	)
	return cmd
}

func (o *rootOptions) api() *client.APIClient {
	return client.NewAPIClient(o.apiURL, &http.Client{Timeout: 15 * time.Second})
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.api().List(cmd.Context(), page, opts.pageSize)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find records whose name contains the term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.api().Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), items)
		},
	}
}

func newTypeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "type <element>",
		Short: "List records carrying an element type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.api().FilterByType(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), items)
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a record with its previous and next neighbours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := opts.api().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if detail.Pokemon == nil {
				return fmt.Errorf("no record returned for id %s", args[0])
			}
			p := detail.Pokemon
			fmt.Fprintf(out, "#%d %s [%s]\n", p.ID, p.Name, strings.Join(p.Types, ", "))
			fmt.Fprintf(out, "image:    %s\n", p.URL)
			if detail.Previous != nil {
				fmt.Fprintf(out, "previous: #%d %s\n", detail.Previous.ID, detail.Previous.Name)
			}
			if detail.Next != nil {
				fmt.Fprintf(out, "next:     #%d %s\n", detail.Next.ID, detail.Next.Name)
			}
			return nil
		},
	}
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var req client.CreateRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := opts.api().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s\n", created.ID, created.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Record name")
	cmd.Flags().IntVar(&req.ID, "id", 0, "Record id")
	cmd.Flags().StringSliceVarP(&req.Types, "type", "t", nil, "Element type (repeat for a second type)")
	cmd.Flags().StringVar(&req.URL, "url", "", "Source image URL")
	return cmd
}

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var (
		search string
		typ    string
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Load pages incrementally the way the web client does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			syncer := client.NewSyncer(opts.api(), opts.pageSize, opts.latency, opts.logger(cmd))

			var err error
			switch {
			case typ != "":
				err = syncer.FilterType(ctx, typ)
			case search != "":
				err = syncer.Search(ctx, search)
			default:
				err = syncer.Load(ctx)
			}
			for i := 1; err == nil && i < pages; i++ {
				before := len(syncer.State().Items)
				if err = syncer.LoadMore(ctx); err == nil && len(syncer.State().Items) == before {
					break
				}
			}
			st := syncer.State()
			if err != nil {
				return errors.New(st.ErrorMessage)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mode=%s page=%d items=%d\n", st.Mode(), st.Page, len(st.Items))
			return printTable(cmd.OutOrStdout(), st.Items)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Name search term")
	cmd.Flags().StringVar(&typ, "type", "", "Element type filter")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Replace the configured store's collection with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			store, closeStore, err := bootstrap.OpenStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()
			n, err := storage.Seed(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records into %s store\n", n, cfg.StoreDriver)
			return nil
		},
	}
}

func printTable(w io.Writer, items []model.DisplayPokemon) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPES\tIMAGE")
	for _, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, strings.Join(p.Types, ","), p.URL)
	}
	return tw.Flush()
}
