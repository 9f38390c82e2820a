package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// EventCategory is the closed enumeration of semantic event categories
// the engine understands. Raw notification signatures are mapped onto
// these by the classifier; anything else is dropped.
type EventCategory string

const (
	CategorySwap          EventCategory = "swap"
	CategoryStake         EventCategory = "stake"
	CategoryTransfer      EventCategory = "transfer"
	CategoryVote          EventCategory = "vote"
	CategoryBridge        EventCategory = "bridge"
	CategoryNFT           EventCategory = "nft"
	CategoryLend          EventCategory = "lend"
	CategoryLevelComplete EventCategory = "level_complete"
	CategoryHighScore     EventCategory = "high_score"
	CategoryDailyLogin    EventCategory = "daily_login"
)

func (c EventCategory) String() string {
	return string(c)
}

// AllCategories lists every semantic category, in catalog scan order.
var AllCategories = []EventCategory{
	CategorySwap,
	CategoryStake,
	CategoryTransfer,
	CategoryVote,
	CategoryBridge,
	CategoryNFT,
	CategoryLend,
	CategoryLevelComplete,
	CategoryHighScore,
	CategoryDailyLogin,
}

// Notification is a single externally observed activity record. It is
// transient: nothing but its fingerprint outlives the pipeline pass.
type Notification struct {
	Chain       Chain     `json:"chain"`
	Emitter     string    `json:"emitter"`
	RawCategory string    `json:"raw_category"`
	Subject     string    `json:"subject"`
	Payload     []byte    `json:"payload"`
	BlockHeight int64     `json:"block_height"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Fingerprint derives the deterministic dedup key for the notification.
// Two deliveries of the same physical event always produce the same
// fingerprint regardless of delivery order or payload re-encoding; the
// payload is deliberately excluded so a relay that re-serialises the
// body cannot defeat dedup.
func (n Notification) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d",
		n.Chain,
		strings.ToLower(strings.TrimSpace(n.Emitter)),
		n.RawCategory,
		strings.ToLower(strings.TrimSpace(n.Subject)),
		n.BlockHeight,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// Validate rejects notifications that can never be processed.
func (n Notification) Validate() error {
	if !IsKnownChain(n.Chain) {
		return fmt.Errorf("unknown chain %q", n.Chain)
	}
	if strings.TrimSpace(n.Subject) == "" {
		return fmt.Errorf("empty subject address")
	}
	if strings.TrimSpace(n.RawCategory) == "" {
		return fmt.Errorf("empty event category")
	}
	if n.BlockHeight < 0 {
		return fmt.Errorf("negative block height %d", n.BlockHeight)
	}
	return nil
}
