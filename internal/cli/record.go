package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/gamerec/core"
)

func newRecordCmd(load loader) *cobra.Command {
	var (
		user   string
		gameID int64
		title  string
		signal string
		rating float64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a user interaction (viewed, liked, rated, purchased, disliked)",
		Example: `  gamerec record --user u1 --game 620 --signal liked
  gamerec record --user u1 --title "portal 2" --signal rated --rating 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			if (gameID == 0) == (title == "") {
				return fmt.Errorf("exactly one of --game or --title is required")
			}
			rt, err := open(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer rt.Close()

			if title != "" {
				g, err := rt.engine.Catalog().MatchTitle(title)
				if err != nil {
					return err
				}
				gameID = g.ID
			}
			var r *float64
			if cmd.Flags().Changed("rating") {
				r = &rating
			}
			ack, err := rt.engine.RecordEvent(cmd.Context(), user, gameID, core.Signal(signal), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s for game %d (event %s, #%d)\n", signal, gameID, ack.EventID, ack.Seq)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "user id")
	cmd.Flags().Int64Var(&gameID, "game", 0, "game id")
	cmd.Flags().StringVar(&title, "title", "", "game title (fuzzy matched)")
	cmd.Flags().StringVarP(&signal, "signal", "s", string(core.SignalLiked), "interaction signal")
	cmd.Flags().Float64Var(&rating, "rating", 0, "rating 1-5 (rated signal only)")
	return cmd
}
