package status

import (
	"fmt"
	"strings"

	"github.com/chaodefabrica/apontamento/internal/domain"
)

// Filter narrows the merged card list by list name, list category or
// lifecycle-state tokens. Zero-value Filter matches everything.
type Filter struct {
	List         string // normalized list name; "" means no filter
	ListCategory string // normalized category; "" means no filter
	States       map[domain.LifecycleState]bool
	Ghost        bool // the "ghost" token: match any card with ghost metadata
}

// ParseFilter builds a Filter from the raw query parameters. "all" and the
// empty string disable the corresponding filter; the status parameter is a
// comma-separated token set (awaiting|setup|producing|paused|ghost).
func ParseFilter(list, category, statusCSV string) (Filter, error) {
	f := Filter{}
	if v := domain.NormalizeListName(list); v != "" && v != "all" {
		f.List = v
	}
	if v := domain.NormalizeListName(category); v != "" && v != "all" {
		f.ListCategory = v
	}

	statusCSV = strings.TrimSpace(statusCSV)
	if statusCSV == "" || strings.EqualFold(statusCSV, "all") {
		return f, nil
	}
	f.States = make(map[domain.LifecycleState]bool)
	for _, token := range strings.Split(statusCSV, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if token == "ghost" {
			f.Ghost = true
			continue
		}
		state, ok := domain.ParseStateToken(token)
		if !ok {
			return Filter{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatusToken, token)
		}
		f.States[state] = true
	}
	if len(f.States) == 0 && !f.Ghost {
		f.States = nil
	}
	return f, nil
}

// Matches applies the filter to one card. List and category checks consider
// both the card's own lane and any ghost-card lane as fallback, so a card
// forecasted into a filtered list shows up even when it currently sits
// elsewhere.
func (f Filter) Matches(card *CardView) bool {
	if f.List != "" && !matchesList(card, f.List) {
		return false
	}
	if f.ListCategory != "" && !matchesCategory(card, f.ListCategory) {
		return false
	}
	if f.States != nil || f.Ghost {
		if f.Ghost && card.HasGhosts() {
			return true
		}
		return f.States[domain.LifecycleState(card.State)]
	}
	return true
}

func matchesList(card *CardView, want string) bool {
	if card.List != nil && domain.NormalizeListName(card.List.Name) == want {
		return true
	}
	for _, g := range card.GhostCards {
		if domain.NormalizeListName(g.ListName) == want {
			return true
		}
	}
	return false
}

func matchesCategory(card *CardView, want string) bool {
	if card.List != nil && domain.NormalizeListName(card.List.Category) == want {
		return true
	}
	for _, g := range card.GhostCards {
		if domain.NormalizeListName(g.ListCategory) == want {
			return true
		}
	}
	return false
}

// Apply filters a card slice in place order, returning the matching cards.
func (f Filter) Apply(cards []CardView) []CardView {
	filtered := make([]CardView, 0, len(cards))
	for i := range cards {
		if f.Matches(&cards[i]) {
			filtered = append(filtered, cards[i])
		}
	}
	return filtered
}
