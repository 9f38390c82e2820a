package classifier

import (
	"errors"
	"fmt"

	"github.com/questforge/progression-engine/internal/domain/event"
	"github.com/questforge/progression-engine/internal/domain/model"
)

// ErrUnclassifiable marks a raw category with no semantic mapping.
// Callers drop and log these; they are not pipeline errors.
var ErrUnclassifiable = errors.New("unclassifiable event")

// DecodeError wraps a payload that is malformed for its recognized
// category. It aborts processing of the single notification carrying
// it and nothing else.
type DecodeError struct {
	Category model.EventCategory
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %v", e.Category, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// signatureTable maps the relay's raw event signatures onto semantic
// categories by exact match. The relay normalises contract ABI event
// names before emission, so both the bare name and the observed legacy
// aliases appear here.
var signatureTable = map[string]model.EventCategory{
	"SwapExecuted":       model.CategorySwap,
	"TokenSwap":          model.CategorySwap,
	"Swap":               model.CategorySwap,
	"TokensStaked":       model.CategoryStake,
	"Staked":             model.CategoryStake,
	"Transfer":           model.CategoryTransfer,
	"TokensTransferred":  model.CategoryTransfer,
	"VoteCast":           model.CategoryVote,
	"GovernanceVote":     model.CategoryVote,
	"BridgeTransfer":     model.CategoryBridge,
	"TokensBridged":      model.CategoryBridge,
	"NFTMinted":          model.CategoryNFT,
	"NFTPurchased":       model.CategoryNFT,
	"AssetSupplied":      model.CategoryLend,
	"LoanOpened":         model.CategoryLend,
	"LevelCompleted":     model.CategoryLevelComplete,
	"GameLevelCompleted": model.CategoryLevelComplete,
	"HighScoreSet":       model.CategoryHighScore,
	"NewHighScore":       model.CategoryHighScore,
	"DailyLogin":         model.CategoryDailyLogin,
	"PlayerLogin":        model.CategoryDailyLogin,
}

// Classifier maps raw notifications onto classified events.
type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify resolves the notification's raw category and decodes its
// payload. It returns ErrUnclassifiable for unknown signatures and a
// *DecodeError for malformed payloads of known categories.
func (c *Classifier) Classify(n model.Notification) (*event.Classified, error) {
	category, ok := signatureTable[n.RawCategory]
	if !ok {
		return nil, fmt.Errorf("%w: signature %q", ErrUnclassifiable, n.RawCategory)
	}

	decoded, err := model.DecodePayload(category, n.Payload)
	if err != nil {
		return nil, &DecodeError{Category: category, Err: err}
	}

	return &event.Classified{
		Notification: n,
		Fingerprint:  n.Fingerprint(),
		Decoded:      decoded,
	}, nil
}

// Categories returns the semantic categories the classifier can emit.
func (c *Classifier) Categories() []model.EventCategory {
	return model.AllCategories
}
