package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the public key for the specific wallet",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	_, publicKey, err := loadAccount()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), publicKey)

	return nil
}
