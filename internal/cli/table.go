package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"mahjong-quiz-service/internal/scoring"
	"github.com/spf13/cobra"
)

// NewTableCmd prints the payment chart.
func NewTableCmd() *cobra.Command {
	var dealer, draw bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the payment chart for a dealer/draw pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTable(cmd.OutOrStdout(), dealer, draw)
		},
	}
	cmd.Flags().BoolVar(&dealer, "dealer", false, "winner is the dealer")
	cmd.Flags().BoolVar(&draw, "draw", false, "win by self-draw")
	return cmd
}

func printTable(out io.Writer, dealer, draw bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLABEL\tNON-DEALER\tDEALER")
	for i, opt := range scoring.Lookup(dealer, draw) {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", i, opt.Label, opt.FromNonDealer, opt.FromDealer)
	}
	return w.Flush()
}
