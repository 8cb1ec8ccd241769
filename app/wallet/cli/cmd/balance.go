package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type account struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type accounts struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Accounts    []account `json:"accounts"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	_, publicKey, err := loadAccount()
	if err != nil {
		return err
	}

	resp, err := client.Get(fmt.Sprintf("%s/v1/accounts/list/%s", nodeURL, publicKey))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		json.NewDecoder(resp.Body).Decode(&er)
		return nodeError(resp, er)
	}

	var acts accounts
	if err := json.NewDecoder(resp.Body).Decode(&acts); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "For Account:", publicKey)
	for _, act := range acts.Accounts {
		fmt.Fprintln(out, act.Balance)
	}

	return nil
}
