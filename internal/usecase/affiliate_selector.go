package usecase

import (
	"errors"
	"sync/atomic"
)

// LeadContext is what a routing strategy may look at. Round-robin ignores it.
type LeadContext struct {
	Score      int
	Quality    string
	FromCity   string
	ToCity     string
	Passengers int
}

type AffiliateSelector interface {
	SelectAffiliate(lead LeadContext) string
}

// RoundRobinSelector hands out partners in fixed cyclic order, shared by all
// requests of the process.
type RoundRobinSelector struct {
	ids    []string
	cursor atomic.Uint64
}

func NewRoundRobinSelector(ids []string) (*RoundRobinSelector, error) {
	if len(ids) == 0 {
		return nil, errors.New("round robin selector needs at least one affiliate")
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return &RoundRobinSelector{ids: cp}, nil
}

func (s *RoundRobinSelector) SelectAffiliate(LeadContext) string {
	n := s.cursor.Add(1) - 1
	return s.ids[n%uint64(len(s.ids))]
}
