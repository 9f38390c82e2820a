package model

import (
	"encoding/json"
	"fmt"
)

// Category-specific payload shapes. Payloads arrive as JSON produced by
// the ledger-observation relay; decoding is strict about the fields the
// matcher and reward calculator depend on, tolerant of extras.

type SwapPayload struct {
	AmountIn  int64  `json:"amount_in"`
	AmountOut int64  `json:"amount_out"`
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
}

type StakePayload struct {
	Amount    int64  `json:"amount"`
	Validator string `json:"validator"`
}

type TransferPayload struct {
	Amount int64  `json:"amount"`
	Token  string `json:"token"`
}

type VotePayload struct {
	ProposalID int64 `json:"proposal_id"`
	Weight     int64 `json:"weight"`
}

type BridgePayload struct {
	Amount           int64  `json:"amount"`
	DestinationChain Chain  `json:"destination_chain"`
	Token            string `json:"token"`
}

type NFTPayload struct {
	Collection string `json:"collection"`
	TokenID    int64  `json:"token_id"`
	Price      int64  `json:"price"`
}

type LendPayload struct {
	Amount int64  `json:"amount"`
	Market string `json:"market"`
}

type LevelCompletePayload struct {
	LevelID int64 `json:"level_id"`
	Score   int64 `json:"score"`
	TimeMS  int64 `json:"time_ms"`
}

type HighScorePayload struct {
	Game  string `json:"game"`
	Score int64  `json:"score"`
}

type DailyLoginPayload struct {
	Day int64 `json:"day"`
}

// DecodedPayload carries the category-specific decode result alongside
// the two projections the rest of the pipeline needs: the magnitude the
// matcher compares against minAmount, and the score feeding milestone
// and personal-best bonuses.
type DecodedPayload struct {
	Category  EventCategory
	Magnitude int64
	Score     int64

	Swap          *SwapPayload
	Stake         *StakePayload
	Transfer      *TransferPayload
	Vote          *VotePayload
	Bridge        *BridgePayload
	NFT           *NFTPayload
	Lend          *LendPayload
	LevelComplete *LevelCompletePayload
	HighScore     *HighScorePayload
	DailyLogin    *DailyLoginPayload
}

// DecodePayload decodes raw into the shape required by category. A
// malformed payload for a recognized category is a decode error that
// aborts only the notification carrying it.
func DecodePayload(category EventCategory, raw []byte) (*DecodedPayload, error) {
	decoded := &DecodedPayload{Category: category}

	switch category {
	case CategorySwap:
		var p SwapPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("swap payload: %w", err)
		}
		if p.AmountIn <= 0 {
			return nil, fmt.Errorf("swap payload: non-positive amount_in %d", p.AmountIn)
		}
		decoded.Swap = &p
		decoded.Magnitude = p.AmountIn

	case CategoryStake:
		var p StakePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("stake payload: %w", err)
		}
		if p.Amount <= 0 {
			return nil, fmt.Errorf("stake payload: non-positive amount %d", p.Amount)
		}
		decoded.Stake = &p
		decoded.Magnitude = p.Amount

	case CategoryTransfer:
		var p TransferPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("transfer payload: %w", err)
		}
		if p.Amount <= 0 {
			return nil, fmt.Errorf("transfer payload: non-positive amount %d", p.Amount)
		}
		decoded.Transfer = &p
		decoded.Magnitude = p.Amount

	case CategoryVote:
		var p VotePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("vote payload: %w", err)
		}
		if p.ProposalID < 0 {
			return nil, fmt.Errorf("vote payload: negative proposal_id %d", p.ProposalID)
		}
		decoded.Vote = &p
		decoded.Magnitude = p.Weight

	case CategoryBridge:
		var p BridgePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("bridge payload: %w", err)
		}
		if p.Amount <= 0 {
			return nil, fmt.Errorf("bridge payload: non-positive amount %d", p.Amount)
		}
		decoded.Bridge = &p
		decoded.Magnitude = p.Amount

	case CategoryNFT:
		var p NFTPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("nft payload: %w", err)
		}
		decoded.NFT = &p
		decoded.Magnitude = p.Price

	case CategoryLend:
		var p LendPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("lend payload: %w", err)
		}
		if p.Amount <= 0 {
			return nil, fmt.Errorf("lend payload: non-positive amount %d", p.Amount)
		}
		decoded.Lend = &p
		decoded.Magnitude = p.Amount

	case CategoryLevelComplete:
		var p LevelCompletePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("level_complete payload: %w", err)
		}
		if p.LevelID <= 0 {
			return nil, fmt.Errorf("level_complete payload: non-positive level_id %d", p.LevelID)
		}
		decoded.LevelComplete = &p
		decoded.Magnitude = p.LevelID
		decoded.Score = p.Score

	case CategoryHighScore:
		var p HighScorePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("high_score payload: %w", err)
		}
		if p.Score < 0 {
			return nil, fmt.Errorf("high_score payload: negative score %d", p.Score)
		}
		decoded.HighScore = &p
		decoded.Magnitude = p.Score
		decoded.Score = p.Score

	case CategoryDailyLogin:
		var p DailyLoginPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("daily_login payload: %w", err)
		}
		decoded.DailyLogin = &p
		decoded.Magnitude = 1

	default:
		return nil, fmt.Errorf("no decoder for category %q", category)
	}

	return decoded, nil
}
