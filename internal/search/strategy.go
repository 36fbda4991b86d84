package search

import (
	"fmt"
	"strings"
)

// Strategy selects how workers decide to stop.
type Strategy int

const (
	// StrategyLocalCap stops each worker once it holds ResultCount matches.
	// Workers never coordinate; surplus matches are discarded at aggregation.
	StrategyLocalCap Strategy = iota
	// StrategySharedBound additionally lets workers stop once their cursor
	// passes the ResultCount-th smallest match found by anyone so far.
	StrategySharedBound
)

var strategyNames = map[Strategy]string{
	StrategyLocalCap:    "local",
	StrategySharedBound: "shared",
}

// String returns the flag value for s.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "local":
		return StrategyLocalCap, nil
	case "shared":
		return StrategySharedBound, nil
	}
	return StrategyLocalCap, fmt.Errorf("unknown strategy %q (valid: local, shared)", name)
}

// StrategyNames lists the accepted strategy names.
func StrategyNames() []string {
	return []string{StrategyLocalCap.String(), StrategySharedBound.String()}
}
