package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin account commands",
	}

	cmd.AddCommand(newAdminRegisterCmd())
	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminApproveCmd())
	cmd.AddCommand(newAdminRejectCmd())
	cmd.AddCommand(newAdminPasswdCmd())
	cmd.AddCommand(newAdminDeleteCmd())

	return cmd
}

func newAdminRegisterCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result AdminAccount

			if err := client.Post("/api/v1/admin/register", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login as an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result LoginResult

			if err := client.Post("/api/v1/admin/login", req, &result); err != nil {
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

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAdminListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []AdminAccount

			if err := client.Get("/api/v1/admin/accounts", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setApproval(args[0], true)
		},
	}
}

func newAdminRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setApproval(args[0], false)
		},
	}
}

func setApproval(id string, approve bool) error {
	req := map[string]bool{"approve": approve}
	var result AdminAccount

	if err := client.Patch("/api/v1/admin/accounts/"+id+"/approval", req, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newAdminPasswdCmd() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "passwd <id>",
		Short: "Change an admin account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_password": pass}

			if err := client.Patch("/api/v1/admin/accounts/"+args[0]+"/password", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "New password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAdminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/accounts/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Deleted")
			return nil
		},
	}
}
