package model

import (
	"time"

	"github.com/google/uuid"
)

// RewardKind distinguishes fungible token rewards from collectible
// (NFT) issuance.
type RewardKind string

const (
	RewardFungible    RewardKind = "fungible"
	RewardCollectible RewardKind = "collectible"
)

// GrantSource records which pipeline step produced a reward.
type GrantSource string

const (
	GrantSourceQuest       GrantSource = "quest"
	GrantSourceAchievement GrantSource = "achievement"
	GrantSourceLevelUp     GrantSource = "level_up"
	GrantSourceStreak      GrantSource = "streak"
	GrantSourceTournament  GrantSource = "tournament"
)

// GrantStatus is the outbox lifecycle of a reward grant. Progression
// state commits before issuance, so a grant is never lost: a dispatcher
// claims it by flipping it to dispatching, failures put it back to
// pending, and it moves to dead-letter only after the attempt budget is
// exhausted. A claim that is never resolved goes stale and becomes
// claimable again.
type GrantStatus string

const (
	GrantPending     GrantStatus = "PENDING"
	GrantDispatching GrantStatus = "DISPATCHING"
	GrantDispatched  GrantStatus = "DISPATCHED"
	GrantDeadLetter  GrantStatus = "DEAD_LETTER"
)

// RewardGrant is a durable outbox entry for a computed issuance.
type RewardGrant struct {
	ID             uuid.UUID   `json:"id"`
	Recipient      string      `json:"recipient"`
	Kind           RewardKind  `json:"kind"`
	Amount         int64       `json:"amount"`
	CollectibleRef string      `json:"collectible_ref"`
	Source         GrantSource `json:"source"`
	SourceRef      string      `json:"source_ref"`
	Attempts       int         `json:"attempts"`
	Status         GrantStatus `json:"status"`
	LastError      string      `json:"last_error"`
	CreatedAt      time.Time   `json:"created_at"`
	DispatchedAt   time.Time   `json:"dispatched_at"`
}
