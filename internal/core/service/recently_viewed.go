package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/niksmo/custom-tee/internal/core/port"
)

const RecentlyViewedCap = 5

// RecentlyViewed keeps the most recently viewed product ids, newest first.
type RecentlyViewed struct {
	persister port.Persister

	mu  sync.Mutex
	ids viewedIDs
}

func NewRecentlyViewed(
	ctx context.Context, persister port.Persister,
) *RecentlyViewed {
	const op = "NewRecentlyViewed"

	if persister == nil {
		panic(fmt.Errorf("%s: persister is nil", op)) // develop mistake
	}

	ids := load(ctx, persister, port.RecentlyViewedRecord, viewedIDs{})
	if len(ids) > RecentlyViewedCap {
		ids = ids[:RecentlyViewedCap]
	}
	return &RecentlyViewed{persister: persister, ids: ids}
}

// Track moves id to the front of the list.
func (r *RecentlyViewed) Track(ctx context.Context, id int) {
	const op = "RecentlyViewed.Track"

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(viewedIDs, 0, RecentlyViewedCap)
	ids = append(ids, id)
	for _, v := range r.ids {
		if v != id && len(ids) < RecentlyViewedCap {
			ids = append(ids, v)
		}
	}
	r.ids = ids

	err := r.persister.Save(ctx, port.RecentlyViewedRecord, r.ids)
	if err != nil {
		slog.Warn("recently viewed may not be saved", "op", op, "err", err)
	}
}

func (r *RecentlyViewed) IDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ids)
}

// viewedIDs is stored as a list of decimal strings. Numeric entries are
// accepted on load as well.
type viewedIDs []int

func (ids viewedIDs) MarshalJSON() ([]byte, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return json.Marshal(out)
}

func (ids *viewedIDs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(viewedIDs, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			s = string(r)
		}
		id, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("product id %s: %w", r, err)
		}
		out = append(out, id)
	}
	*ids = out
	return nil
}
