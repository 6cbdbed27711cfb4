package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Knowledge challenge commands",
	}

	cmd.AddCommand(newAuthQuestionCmd())
	cmd.AddCommand(newAuthVerifyCmd())
	cmd.AddCommand(newAuthSessionCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthQuestionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question",
		Short: "Fetch a challenge question",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Question

			if err := client.Get("/api/v1/auth/question", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuthVerifyCmd() *cobra.Command {
	var questionID, answer string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Answer a challenge question",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"question_id": questionID,
				"answer":      answer,
			}
			var result VerifyResult

			if err := client.Post("/api/v1/auth/verify", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&questionID, "question-id", "", "Question ID (required)")
	cmd.Flags().StringVar(&answer, "answer", "", "Answer (required)")
	_ = cmd.MarkFlagRequired("question-id")
	_ = cmd.MarkFlagRequired("answer")

	return cmd
}

func newAuthSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show how the current token classifies",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionInfo

			if err := client.Get("/api/v1/auth/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearToken(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}
