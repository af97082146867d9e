// Package nav encodes paging and media actions into the opaque tokens
// carried by inline keyboard buttons, and decodes button presses back.
//
// Tokens are space-separated and must stay within Telegram's 64-byte
// callback-data limit. Unknown or malformed tokens decode to (nil, false):
// they are stale or foreign input and must never crash the router.
package nav

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tg_covid_bot/internal/domain"
	"tg_covid_bot/internal/paging"
)

// MaxTokenBytes is the transport's button-payload limit.
const MaxTokenBytes = 64

var codePattern = regexp.MustCompile(`^[a-z_]{1,32}$`)

// ErrTokenTooLong is returned when an encoded action exceeds MaxTokenBytes.
var ErrTokenTooLong = errors.New("navigation token exceeds payload limit")

// Action is one of the fixed set of button action shapes.
type Action interface {
	token() string
}

// ListPage navigates to a list page. A negative page is the last-page
// sentinel.
type ListPage struct {
	Page  int
	Limit int
}

func (a ListPage) token() string {
	return fmt.Sprintf("list %d %d", a.Page, a.Limit)
}

// SortMenu toggles the sort-order menu while preserving the paging state
// needed to restore the list keyboard.
type SortMenu struct {
	Show  bool
	Page  int
	Limit int
	Last  bool
}

func (a SortMenu) token() string {
	return fmt.Sprintf("list_order_menu %d (%d %d %d)", boolBit(a.Show), a.Page, a.Limit, boolBit(a.Last))
}

// SortSelect applies a sort key and re-renders the first page.
type SortSelect struct {
	Key   domain.SortKey
	Limit int
}

func (a SortSelect) token() string {
	return fmt.Sprintf("list_order %s %d", a.Key, a.Limit)
}

// ShowMap requests the map image for an entity.
type ShowMap struct {
	Code string
}

func (a ShowMap) token() string {
	return "map " + a.Code
}

// ShowGraph requests the case timeseries chart for an entity.
type ShowGraph struct {
	Code string
}

func (a ShowGraph) token() string {
	return "graph " + a.Code
}

// ShowVacc requests the vaccination chart for an entity.
type ShowVacc struct {
	Code string
}

func (a ShowVacc) token() string {
	return "vacc " + a.Code
}

// Encode serializes an action into its button token.
func Encode(a Action) (string, error) {
	tok := a.token()
	if len(tok) > MaxTokenBytes {
		return "", fmt.Errorf("%w: %q", ErrTokenTooLong, tok)
	}
	return tok, nil
}

// MustEncode encodes an action whose size is known to be within bounds.
// All fixed-grammar shapes with bounded fields satisfy this.
func MustEncode(a Action) string {
	tok, err := Encode(a)
	if err != nil {
		panic(err)
	}
	return tok
}

// Decode parses a button token by trying each known shape in order. It
// returns (nil, false) for anything that does not match exactly.
func Decode(token string) (Action, bool) {
	if len(token) == 0 || len(token) > MaxTokenBytes {
		return nil, false
	}

	fields := strings.Fields(token)
	if len(fields) < 2 {
		return nil, false
	}

	switch fields[0] {
	case "list":
		if len(fields) != 3 {
			return nil, false
		}
		page, ok := parsePage(fields[1])
		if !ok {
			return nil, false
		}
		limit, ok := parseLimit(fields[2])
		if !ok {
			return nil, false
		}
		return ListPage{Page: page, Limit: limit}, true

	case "list_order_menu":
		if len(fields) != 5 {
			return nil, false
		}
		show, ok := parseBit(fields[1])
		if !ok {
			return nil, false
		}
		inner := fields[2:5]
		if !strings.HasPrefix(inner[0], "(") || !strings.HasSuffix(inner[2], ")") {
			return nil, false
		}
		page, ok := parsePage(strings.TrimPrefix(inner[0], "("))
		if !ok {
			return nil, false
		}
		limit, ok := parseLimit(inner[1])
		if !ok {
			return nil, false
		}
		last, ok := parseBit(strings.TrimSuffix(inner[2], ")"))
		if !ok {
			return nil, false
		}
		return SortMenu{Show: show, Page: page, Limit: limit, Last: last}, true

	case "list_order":
		if len(fields) != 3 {
			return nil, false
		}
		key, ok := domain.ParseSortKey(fields[1])
		if !ok {
			return nil, false
		}
		limit, ok := parseLimit(fields[2])
		if !ok {
			return nil, false
		}
		return SortSelect{Key: key, Limit: limit}, true

	case "map":
		if code, ok := parseCode(fields); ok {
			return ShowMap{Code: code}, true
		}

	case "graph":
		if code, ok := parseCode(fields); ok {
			return ShowGraph{Code: code}, true
		}

	case "vacc":
		if code, ok := parseCode(fields); ok {
			return ShowVacc{Code: code}, true
		}
	}

	return nil, false
}

func parseCode(fields []string) (string, bool) {
	if len(fields) != 2 || !codePattern.MatchString(fields[1]) {
		return "", false
	}
	return fields[1], true
}

func parsePage(raw string) (int, bool) {
	page, err := strconv.Atoi(raw)
	if err != nil || page < -1 {
		return 0, false
	}
	return page, true
}

func parseLimit(raw string) (int, bool) {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < paging.MinLimit || limit > paging.MaxLimit {
		return 0, false
	}
	return limit, true
}

func parseBit(raw string) (bool, bool) {
	switch raw {
	case "0":
		return false, true
	case "1":
		return true, true
	}
	return false, false
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
