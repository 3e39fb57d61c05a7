package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashkhedar/datamanager/internal/editor"
	"github.com/akashkhedar/datamanager/internal/types"
)

func init() {
	rootCmd.AddCommand(labelCmd)

	labelCmd.Flags().Int64("task", 0, "task id to label (0 picks the next queue task)")
	labelCmd.Flags().String("submit", "", "path to a JSON result file to submit")
	labelCmd.Flags().Bool("skip", false, "skip the task instead of labeling it")
}

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Run one labeling step against a task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, _ := cmd.Flags().GetInt64("task")
		submitPath, _ := cmd.Flags().GetString("submit")
		skip, _ := cmd.Flags().GetBool("skip")
		if submitPath != "" && skip {
			return fmt.Errorf("--submit and --skip are mutually exclusive")
		}

		cfg := loadConfig()
		dm, err := newManager(cfg)
		if err != nil {
			return err
		}
		defer dm.Destroy(true)
		defer attachNotifier(cfg, dm)()

		ctx := cmd.Context()
		if err := dm.InitApp(ctx); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		if err := dm.StartLabeling(ctx, types.TaskID(taskID)); err != nil {
			return err
		}

		w := dm.Wrapper()
		head, ok := w.Editor().(*editor.Headless)
		if !ok {
			return fmt.Errorf("editor is not headless")
		}

		task, _ := dm.Store().Task(w.TaskID())
		if task != nil {
			fmt.Fprintf(os.Stdout, "Task %d\n", task.ID)
			if len(task.Data) > 0 {
				fmt.Fprintf(os.Stdout, "Data: %s\n", task.Data)
			}
		}

		switch {
		case skip:
			if err := head.Skip(ctx); err != nil {
				return fmt.Errorf("skip task: %w", err)
			}
			fmt.Println("Task skipped.")

		case submitPath != "":
			data, err := os.ReadFile(submitPath)
			if err != nil {
				return fmt.Errorf("read result file: %w", err)
			}
			var result []types.Result
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("parse result file: %w", err)
			}
			a := head.Selected()
			if a == nil {
				return fmt.Errorf("no annotation selected")
			}
			head.UpdateResult(a.LocalID, result)
			if a.Persisted() {
				if err := head.Update(ctx); err != nil {
					return fmt.Errorf("update annotation: %w", err)
				}
			} else {
				if err := head.Submit(ctx); err != nil {
					return fmt.Errorf("submit annotation: %w", err)
				}
			}
			fmt.Println("Annotation saved.")

		default:
			if a := head.Selected(); a != nil {
				fmt.Fprintf(os.Stdout, "Annotation: %s (persisted=%v, regions=%d)\n",
					a.LocalID, a.Persisted(), len(a.Result))
			}
			for _, p := range head.Predictions() {
				fmt.Fprintf(os.Stdout, "Prediction: %s (%s)\n", p.LocalID, p.ModelVersion)
			}
		}
		return nil
	},
}
