// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time `json:"date"`
	Difficulty uint      `json:"difficulty"` // How difficult it needs to be to solve the work problem.
	Reward     int64     `json:"reward"`     // Reward for mining a block.
	Mining     *bool     `json:"mining"`     // Blocks can only be added by mining, defaults to true.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding %q: %w", path, err)
	}

	if err := genesis.Policy().Validate(); err != nil {
		return Genesis{}, fmt.Errorf("genesis %q: %w", path, err)
	}

	return genesis, nil
}

// Policy returns the chain policy the genesis file describes.
func (g Genesis) Policy() database.Policy {
	if g.Mining != nil && !*g.Mining {
		return database.PlainPolicy()
	}
	return database.MiningPolicy(g.Difficulty, g.Reward)
}
