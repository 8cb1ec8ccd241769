package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount int64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a transfer and submit it to the node",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Public key of the recipient.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	privateKey, _, err := loadAccount()
	if err != nil {
		return err
	}

	tx, err := database.NewTransferTx(signer, privateKey, to, amount)
	if err != nil {
		return err
	}

	data, err := json.Marshal(struct {
		Source    string `json:"source"`
		Recipient string `json:"recipient"`
		Amount    int64  `json:"amount"`
		Signature string `json:"signature"`
	}{
		Source:    tx.Source,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		Signature: tx.Signature,
	})
	if err != nil {
		return err
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/tx/submit", nodeURL), "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		json.NewDecoder(resp.Body).Decode(&er)
		return nodeError(resp, er)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "submitted", tx)

	return nil
}
