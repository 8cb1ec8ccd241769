// This program is a command line wallet for the cryptomoji ledger node.
package main

import "github.com/brycechampaign/education-cryptomoji/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
