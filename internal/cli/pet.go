package cli

import (
	"github.com/spf13/cobra"
)

func newPetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Companion commands",
	}

	cmd.AddCommand(newPetStatusCmd())
	cmd.AddCommand(newPetFeedCmd())
	cmd.AddCommand(newPetPlayCmd())
	cmd.AddCommand(newPetRenameCmd())
	cmd.AddCommand(newPetColorCmd())
	cmd.AddCommand(newPetEquipCmd())

	return cmd
}

func newPetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show companion state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Pet

			if err := client.Get("/api/v1/pet", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPetFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Feed the companion",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionResult

			if err := client.Post("/api/v1/pet/feed", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPetPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play with the companion",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActionResult

			if err := client.Post("/api/v1/pet/play", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPetRenameCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename the companion",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			var result Pet

			if err := client.Patch("/api/v1/pet/name", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPetColorCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "color",
		Short: "Change the companion's color",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"color": color}
			var result Pet

			if err := client.Patch("/api/v1/pet/color", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "New color (required)")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newPetEquipCmd() *cobra.Command {
	var items map[string]string

	cmd := &cobra.Command{
		Use:   "equip",
		Short: "Set equipped items by slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"items": items}
			var result Pet

			if err := client.Put("/api/v1/pet/equipment", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&items, "item", nil, "Slot to item mapping, e.g. --item head=crown")

	return cmd
}
