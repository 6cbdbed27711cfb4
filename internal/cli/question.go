package cli

import (
	"github.com/spf13/cobra"
)

func newQuestionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Challenge question management commands",
	}

	cmd.AddCommand(newQuestionAddCmd())
	cmd.AddCommand(newQuestionListCmd())
	cmd.AddCommand(newQuestionDeleteCmd())

	return cmd
}

func newQuestionAddCmd() *cobra.Command {
	var question, hint, answer string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a challenge question",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"question": question,
				"hint":     hint,
				"answer":   answer,
			}
			var result Question

			if err := client.Post("/api/v1/admin/questions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&question, "question", "", "Question text (required)")
	cmd.Flags().StringVar(&hint, "hint", "", "Hint shown with the question")
	cmd.Flags().StringVar(&answer, "answer", "", "Expected answer (required)")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func newQuestionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List challenge questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Question

			if err := client.Get("/api/v1/admin/questions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newQuestionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a challenge question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/questions/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Deleted")
			return nil
		},
	}
}
