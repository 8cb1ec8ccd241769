package cmd

import (
	"fmt"
	"os"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %q already exists", path)
	}

	privateKey, err := signature.GenerateKey()
	if err != nil {
		return err
	}

	if err := signature.SavePrivateKey(path, privateKey); err != nil {
		return err
	}

	publicKey, err := signer.PublicKey(privateKey)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), publicKey)

	return nil
}
