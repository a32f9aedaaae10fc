package commands

import (
	"fmt"
	"time"

	"omnivox-backend/cmd/omnivox-cli/globals"
	"omnivox-backend/internal/digest"

	"github.com/spf13/cobra"
)

var (
	digestHorizon time.Duration
	digestSend    bool
)

func init() {
	digestCmd.Flags().DurationVar(&digestHorizon, "horizon", 7*24*time.Hour, "how far ahead calendar events are included")
	digestCmd.Flags().BoolVar(&digestSend, "send", false, "mail the digest using the smtp config instead of printing it")
	rootCmd.AddCommand(digestCmd)
}

var digestCmd = &cobra.Command{
	Use:   "digest <institution> <student-number> <password>",
	Short: "Summarize everything the portal flags as new along with upcoming events.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		p, _, err := scrape(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}

		d := digest.Build(args[0], args[1], p.Student(), g.Time.Now(), digestHorizon)
		if !digestSend {
			fmt.Fprint(cmd.OutOrStdout(), d.Render())
			return nil
		}
		if d.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing New, no email sent")
			return nil
		}
		err = digest.Send(cmd.Context(), g.Config.Smtp, d)
		if err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %q to %d recipients\n", d.Subject(), len(g.Config.Smtp.To))
		return nil
	},
}
