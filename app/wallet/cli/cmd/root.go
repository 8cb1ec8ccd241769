// Package cmd contains the wallet commands.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	nodeURL     string
)

const keyExtension = ".ecdsa"

// signer is used for every key and signing operation of the wallet.
var signer signature.ECDSA

// client talks to the node.
var client = http.Client{
	Timeout: 2 * time.Minute,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Simple wallet for the cryptomoji ledger",
	SilenceUsage: true,
}

// Execute runs the wallet with the command line arguments.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	name := accountName
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}

	return filepath.Join(accountPath, name)
}

// loadAccount returns the private and public key of the wallet account.
func loadAccount() (string, string, error) {
	privateKey, err := signature.LoadPrivateKey(getPrivateKeyPath())
	if err != nil {
		return "", "", err
	}

	publicKey, err := signer.PublicKey(privateKey)
	if err != nil {
		return "", "", err
	}

	return privateKey, publicKey, nil
}

// nodeError builds an error from a failed node response.
func nodeError(resp *http.Response, body errorResponse) error {
	if body.Error == "" {
		return fmt.Errorf("node responded %s", resp.Status)
	}

	if len(body.Fields) > 0 {
		return fmt.Errorf("node responded %s: %s %v", resp.Status, body.Error, body.Fields)
	}

	return fmt.Errorf("node responded %s: %s", resp.Status, body.Error)
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
