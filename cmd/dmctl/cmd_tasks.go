package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the project's tasks",
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

		st := dm.Store()
		ids := st.IDs()
		if len(ids) == 0 {
			fmt.Println("No tasks in project.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABELED\tANNOTATIONS\tPREDICTIONS\tDRAFTS")
		for _, id := range ids {
			task, ok := st.Task(id)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%d\t%v\t%d\t%d\t%d\n",
				task.ID,
				task.IsLabeled,
				len(task.Annotations),
				len(task.Predictions),
				len(task.Drafts),
			)
		}
		return w.Flush()
	},
}
