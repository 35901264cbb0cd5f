package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the cached Spotify app token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cc.ensureLogger()
			if err != nil {
				return err
			}
			authenticator, err := cc.newAuthenticator(cfg, logger)
			if err != nil {
				return err
			}
			if err := authenticator.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed cached Spotify token.")
			return nil
		},
	}
}
