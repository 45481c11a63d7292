package core

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// TargetKey selects which client attribute a target query matches.
type TargetKey int

const (
	TargetIP TargetKey = iota
	TargetOOCName
	TargetID
	TargetCharName
	TargetIPID
	TargetHDID
	TargetAll
)

var targetKeyNames = map[TargetKey]string{
	TargetIP:       "ip",
	TargetOOCName:  "ooc",
	TargetID:       "id",
	TargetCharName: "cname",
	TargetIPID:     "ipid",
	TargetHDID:     "hdid",
	TargetAll:      "all",
}

func (k TargetKey) String() string {
	if s, ok := targetKeyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("target(%d)", int(k))
}

// ParseTargetKey maps a key name to a TargetKey.
func ParseTargetKey(s string) (TargetKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range targetKeyNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown target key %q", s)
}

// ResolveTargets returns the clients matching value under key. With local
// the search covers the requester's area only, otherwise every area.
// Address, OOC name and character name match when value starts with the
// client's field, ignoring case. Other keys match exactly.
func (w *World) ResolveTargets(requester *Client, key TargetKey, value string, local bool) []*Client {
	var areas []*Area
	if local {
		if requester == nil || requester.Area == nil {
			return nil
		}
		areas = []*Area{requester.Area}
	} else {
		areas = w.graph.Areas()
	}

	if key == TargetAll {
		seen := make(map[*Client]bool)
		var out []*Client
		for k := TargetIP; k < TargetAll; k++ {
			for _, c := range w.matchTargets(areas, k, value) {
				if !seen[c] {
					seen[c] = true
					out = append(out, c)
				}
			}
		}
		return out
	}
	return w.matchTargets(areas, key, value)
}

func (w *World) matchTargets(areas []*Area, key TargetKey, value string) []*Client {
	fold := cases.Fold()
	folded := fold.String(value)
	prefixOf := func(field string) bool {
		return field != "" && strings.HasPrefix(folded, fold.String(field))
	}

	id, idErr := strconv.Atoi(strings.TrimSpace(value))

	var out []*Client
	for _, a := range areas {
		for _, c := range a.Clients() {
			var ok bool
			switch key {
			case TargetIP:
				ok = prefixOf(c.RealAddr())
			case TargetOOCName:
				ok = prefixOf(c.Name)
			case TargetCharName:
				ok = prefixOf(c.CharName())
			case TargetID:
				ok = idErr == nil && c.ID == id
			case TargetIPID:
				ok = c.IPID == value
			case TargetHDID:
				ok = c.HDID != "" && c.HDID == value
			}
			if ok {
				out = append(out, c)
			}
		}
	}
	return out
}
