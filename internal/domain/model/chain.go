package model

type Chain string

const (
	ChainAvalanche Chain = "avalanche"
	ChainEthereum  Chain = "ethereum"
	ChainBase      Chain = "base"
	ChainPolygon   Chain = "polygon"
	ChainArbitrum  Chain = "arbitrum"
	ChainBSC       Chain = "bsc"

	// ChainAny is the wildcard scope: a definition scoped to ChainAny
	// matches notifications from every chain.
	ChainAny Chain = "any"
)

func (c Chain) String() string {
	return string(c)
}

// Matches reports whether a definition scoped to c accepts a
// notification observed on target.
func (c Chain) Matches(target Chain) bool {
	return c == ChainAny || c == target
}

// KnownChains lists every chain the engine accepts notifications from.
var KnownChains = []Chain{
	ChainAvalanche,
	ChainEthereum,
	ChainBase,
	ChainPolygon,
	ChainArbitrum,
	ChainBSC,
}

// IsKnownChain reports whether c is a chain the engine ingests from.
func IsKnownChain(c Chain) bool {
	for _, known := range KnownChains {
		if c == known {
			return true
		}
	}
	return false
}
