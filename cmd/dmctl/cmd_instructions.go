package main

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(instructionsCmd)
}

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Show the project's labeling instructions as markdown",
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

		project := dm.Store().Project()
		if project == nil || project.Instruction == "" {
			fmt.Println("No instructions set for this project.")
			return nil
		}

		md, err := htmltomarkdown.ConvertString(project.Instruction)
		if err != nil {
			return fmt.Errorf("convert instructions: %w", err)
		}
		fmt.Println(md)
		return nil
	},
}
