package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the pending transactions now",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	resp, err := client.Post(fmt.Sprintf("%s/v1/blocks/mine", nodeURL), "application/json", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		json.NewDecoder(resp.Body).Decode(&er)
		return nodeError(resp, er)
	}

	var blk struct {
		Hash         string            `json:"hash"`
		PrevHash     string            `json:"prev_hash"`
		Nonce        uint64            `json:"nonce"`
		Transactions []json.RawMessage `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&blk); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "mined block %s nonce %d with %d transactions\n", blk.Hash, blk.Nonce, len(blk.Transactions))

	return nil
}
