/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the vault REST API server.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/medvault/vault/cmd/vault-rest/startcmd"
)

var logger = log.New("vault-rest")

// Version is embedded during build.
var Version string //nolint:gochecknoglobals

func main() {
	rootCmd := &cobra.Command{
		Use: "vault-rest",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd(&startcmd.HTTPServer{},
		startcmd.WithVersion(Version),
		startcmd.WithServerVersion(os.Getenv("VAULT_SERVER_VERSION"))))

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("failed to run vault-rest", log.WithError(err))
	}
}
