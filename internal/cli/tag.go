package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove record tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <tag>",
		Short: "Add a tag to a record (ignored if already present in any case)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := printingNotifier(cmd.OutOrStdout())
			defer notes.Close()

			rv, err := a.recordView(cmd.Context(), args[0], notes)
			if err != nil {
				return err
			}
			return rv.AddTag(cmd.Context(), args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id> <tag>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove every case-insensitive match of a tag from a record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := printingNotifier(cmd.OutOrStdout())
			defer notes.Close()

			rv, err := a.recordView(cmd.Context(), args[0], notes)
			if err != nil {
				return err
			}
			return rv.RemoveTag(cmd.Context(), args[1])
		},
	})

	return cmd
}
