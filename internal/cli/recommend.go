package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/gamerec/core"
)

type recommendFlags struct {
	user       string
	query      string
	k          int
	genres     []string
	tags       []string
	maxPrice   float64
	platforms  []string
	expr       string
	startYear  int
	endYear    int
	playtime   int
	includeDLC bool
	jsonOutput bool
}

func newRecommendCmd(load loader) *cobra.Command {
	var f recommendFlags

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend games for a user and/or a free-text query",
		Example: `  gamerec recommend --user u1
  gamerec recommend --query "games like Portal 2" -k 5
  gamerec recommend --genre puzzle --max-price 20 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer rt.Close()

			req := core.Request{
				UserID: f.user,
				Query:  f.query,
				K:      f.k,
				Filters: core.Filters{
					Genres:      f.genres,
					Tags:        f.tags,
					Platforms:   f.platforms,
					Expr:        f.expr,
					StartYear:   f.startYear,
					EndYear:     f.endYear,
					MinPlaytime: f.playtime,
					IncludeDLC:  f.includeDLC,
				},
			}
			if cmd.Flags().Changed("max-price") {
				req.Filters.MaxPrice = &f.maxPrice
			}
			res, err := rt.engine.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			if f.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), toView(res))
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id (empty for anonymous)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "free-text query")
	cmd.Flags().IntVarP(&f.k, "k", "k", 0, "number of results (default from config)")
	cmd.Flags().StringSliceVar(&f.genres, "genre", nil, "require any of these genres/tags")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "require any of these tags")
	cmd.Flags().Float64Var(&f.maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().StringSliceVar(&f.platforms, "platform", nil, "supported platform (windows, mac, linux, deck)")
	cmd.Flags().StringVar(&f.expr, "expr", "", `CEL filter expression, e.g. 'game.price < 20.0'`)
	cmd.Flags().IntVar(&f.startYear, "from-year", 0, "earliest release year (inclusive)")
	cmd.Flags().IntVar(&f.endYear, "to-year", 0, "latest release year (inclusive)")
	cmd.Flags().IntVar(&f.playtime, "min-playtime", 0, "minimum average playtime in minutes")
	cmd.Flags().BoolVar(&f.includeDLC, "include-dlc", false, "include DLC and soundtracks")
	cmd.Flags().BoolVarP(&f.jsonOutput, "json", "j", false, "output as JSON")
	return cmd
}

type entryView struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

type resultView struct {
	State    string      `json:"state"`
	Tag      string      `json:"tag"`
	Degraded string      `json:"degraded,omitempty"`
	Entries  []entryView `json:"entries"`
}

func toView(res *core.Result) resultView {
	v := resultView{
		State:    string(res.State),
		Tag:      res.Tag,
		Degraded: res.Degraded,
		Entries:  make([]entryView, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		v.Entries = append(v.Entries, entryView{
			ID:          e.Game.ID,
			Title:       e.Game.Title,
			Score:       e.Score,
			Explanation: string(e.Explanation),
		})
	}
	return v
}

func printResult(w io.Writer, res *core.Result) error {
	fmt.Fprintf(w, "state: %s  tag: %s", res.State, res.Tag)
	if res.Degraded != "" {
		fmt.Fprintf(w, "  degraded: %s", res.Degraded)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tSCORE\tWHY")
	for i, e := range res.Entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.3f\t%s\n", i+1, e.Game.ID, e.Game.Title, e.Score, e.Explanation)
	}
	return tw.Flush()
}
