package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user and resolved capabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dm, err := newManager(loadConfig())
		if err != nil {
			return err
		}
		defer dm.Destroy(true)

		if err := dm.InitApp(cmd.Context()); err != nil {
			return fmt.Errorf("connect: %w", err)
		}

		caps := dm.Capabilities()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if caps.User != nil {
			fmt.Fprintf(w, "User\t%s <%s>\n", caps.User.DisplayName(), caps.User.Email)
		}
		fmt.Fprintf(w, "Role\t%s\n", caps.Role)
		fmt.Fprintf(w, "Can annotate\t%v\n", caps.CanAnnotate)
		fmt.Fprintf(w, "Annotator\t%v\n", caps.IsAnnotator)
		fmt.Fprintf(w, "Expert\t%v\n", caps.IsExpert)
		fmt.Fprintf(w, "Client\t%v\n", caps.IsClient)
		return w.Flush()
	},
}
