// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/balance"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/verify"
	"github.com/brycechampaign/education-cryptomoji/foundation/nameservice"
	"go.uber.org/zap"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Demo describes the local chain the commands build.
type Demo struct {
	Accounts   string
	Difficulty uint
	Reward     int64
	Blocks     int
}

// account is a key pair loaded from the accounts folder.
type account struct {
	name       string
	privateKey string
	publicKey  string
}

// RunDemo mines a local chain where every block but the first carries a
// transfer of half the balance of the previous miner to the next one. The
// balances and the audit result are logged.
func RunDemo(log *zap.SugaredLogger, d Demo) error {
	chain, ns, err := build(log, d)
	if err != nil {
		return err
	}

	report(log, ns, chain)

	return nil
}

// RunTamper builds the same chain as RunDemo and then breaks it to show the
// audit catching the change.
func RunTamper(log *zap.SugaredLogger, d Demo) error {
	chain, ns, err := build(log, d)
	if err != nil {
		return err
	}

	broken := verify.Tamper(chain)
	log.Infow("tamper", "status", "chain altered", "blocks", broken.Len())

	report(log, ns, broken)

	var signer signature.ECDSA
	if verify.MineableChain(signer, broken) {
		return errors.New("tampered chain still validates")
	}

	return nil
}

// =============================================================================

func build(log *zap.SugaredLogger, d Demo) (*database.Chain, *nameservice.NameService, error) {
	var signer signature.ECDSA

	accounts, err := loadAccounts(signer, d.Accounts)
	if err != nil {
		return nil, nil, err
	}

	if len(accounts) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 key files in %q, found %d", d.Accounts, len(accounts))
	}

	ns, err := nameservice.New(d.Accounts, signer)
	if err != nil {
		return nil, nil, err
	}

	chain, err := database.New(database.MiningPolicy(d.Difficulty, d.Reward))
	if err != nil {
		return nil, nil, err
	}

	miner := database.NewMiner(signer)

	for i := range d.Blocks {
		next := accounts[i%len(accounts)]

		if i > 0 {
			prev := accounts[(i-1)%len(accounts)]

			amount := balance.Of(chain, prev.publicKey) / 2
			tx, err := database.NewTransferTx(signer, prev.privateKey, next.publicKey, amount)
			if err != nil {
				return nil, nil, err
			}
			chain.AddTransaction(tx)

			log.Infow("demo", "status", "transfer queued", "from", prev.name, "to", next.name, "amount", amount)
		}

		block, err := miner.Mine(chain, next.privateKey)
		if err != nil {
			return nil, nil, fmt.Errorf("mining block %d: %w", i+1, err)
		}

		log.Infow("demo", "status", "block mined", "miner", next.name, "hash", block.Hash, "nonce", block.Nonce, "trans", len(block.Transactions))
	}

	return chain, ns, nil
}

func report(log *zap.SugaredLogger, ns *nameservice.NameService, chain *database.Chain) {
	var signer signature.ECDSA

	for publicKey, bal := range balance.Replay(chain.Blocks()).Copy() {
		log.Infow("report", "account", ns.Lookup(publicKey), "balance", bal)
	}

	if err := verify.CheckMineableChain(signer, chain); err != nil {
		log.Infow("report", "valid", false, "ERROR", err)
		return
	}

	log.Infow("report", "valid", true, "blocks", chain.Len())
}

func loadAccounts(signer signature.Signer, folder string) ([]account, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}

	var accounts []account
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".ecdsa" {
			continue
		}

		privateKey, err := signature.LoadPrivateKey(filepath.Join(folder, entry.Name()))
		if err != nil {
			return nil, err
		}

		publicKey, err := signer.PublicKey(privateKey)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account{
			name:       strings.TrimSuffix(entry.Name(), ".ecdsa"),
			privateKey: privateKey,
			publicKey:  publicKey,
		})
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].name < accounts[j].name
	})

	return accounts, nil
}
