package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func normalizeAvatarsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-avatars",
		Short: "Re-encode stored avatars larger than AVATAR_MAX_PX",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.profiles.NormalizeAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d, rewritten %d, failed %d\n",
				report.Checked, report.Rewritten, report.Failed)
			if report.Failed > 0 {
				return fmt.Errorf("%d avatars could not be normalized", report.Failed)
			}
			return nil
		},
	}
}
