package services

import (
	"context"
)

// ValidatedSet is the outcome of filtering requested entity ids against
// their current funnel status. Rejected references are dropped silently
// (bulk assignment UIs tolerate stale selections); only the count is
// reported back.
type ValidatedSet struct {
	Accepted      []uint `json:"accepted"`
	RejectedCount int    `json:"rejected_count"`
}

func (s *TaskService) validateEntities(ctx context.Context, ids []uint, wantStatus string) (ValidatedSet, error) {
	if len(ids) == 0 {
		return ValidatedSet{}, nil
	}

	entities, err := s.entities.FindWithStatus(ctx, dedupe(ids), wantStatus)
	if err != nil {
		return ValidatedSet{}, err
	}

	accepted := make([]uint, 0, len(entities))
	for _, e := range entities {
		accepted = append(accepted, e.ID)
	}
	return ValidatedSet{
		Accepted:      accepted,
		RejectedCount: len(dedupe(ids)) - len(accepted),
	}, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
