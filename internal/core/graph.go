package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// AreaDef describes one configured area.
type AreaDef struct {
	Name              string
	Background        string
	Status            string
	Lobby             bool
	Private           bool
	StartDark         bool
	Lock              string
	Reachable         []string
	RestrictedChars   []string
	AFKDelay          time.Duration
	AFKSendTo         int
	HPDef             int
	HPPro             int
	RPGetAreaAllowed  bool
	RPGetAreasAllowed bool
	Evidence          []Evidence
}

// AreaGraph is the fixed set of areas and their reachability edges.
type AreaGraph struct {
	areas  []*Area
	byName map[string]*Area
}

// NewAreaGraph validates defs and builds the graph. Area ids follow the
// order of defs.
func NewAreaGraph(defs []AreaDef) (*AreaGraph, error) {
	if len(defs) == 0 {
		return nil, errors.New("at least one area is required")
	}

	g := &AreaGraph{
		areas:  make([]*Area, 0, len(defs)),
		byName: make(map[string]*Area, len(defs)),
	}
	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("area %d: empty name", i)
		}
		if _, dup := g.byName[def.Name]; dup {
			return nil, fmt.Errorf("area %d: duplicate name %q", i, def.Name)
		}
		lock, err := ParseLockState(def.Lock)
		if err != nil {
			return nil, fmt.Errorf("area %q: %w", def.Name, err)
		}

		a := newArea(i, def.Name)
		a.Background = def.Background
		a.Status = def.Status
		a.Lobby = def.Lobby
		a.Private = def.Private
		a.Lights = !def.StartDark
		a.Lock = lock
		a.AFKDelay = def.AFKDelay
		a.AFKSendTo = def.AFKSendTo
		a.HPDef = def.HPDef
		a.HPPro = def.HPPro
		a.RPGetAreaAllowed = def.RPGetAreaAllowed
		a.RPGetAreasAllowed = def.RPGetAreasAllowed
		a.Evidence = append([]Evidence(nil), def.Evidence...)
		for _, name := range def.RestrictedChars {
			a.RestrictedChars[name] = struct{}{}
		}

		g.areas = append(g.areas, a)
		g.byName[a.Name] = a
	}

	for i, def := range defs {
		a := g.areas[i]
		if len(def.Reachable) == 0 {
			a.Reachable[AllReachable] = struct{}{}
		} else {
			for _, name := range def.Reachable {
				if name != AllReachable {
					if _, ok := g.byName[name]; !ok {
						return nil, fmt.Errorf("area %q: unknown reachable area %q", a.Name, name)
					}
				}
				a.Reachable[name] = struct{}{}
			}
			a.Reachable[a.Name] = struct{}{}
		}
		if def.AFKSendTo < 0 || def.AFKSendTo >= len(g.areas) {
			return nil, fmt.Errorf("area %q: afk destination %d out of range", a.Name, def.AFKSendTo)
		}
	}
	return g, nil
}

// Areas returns every area ordered by id.
func (g *AreaGraph) Areas() []*Area {
	return g.areas
}

// Len returns the number of areas.
func (g *AreaGraph) Len() int {
	return len(g.areas)
}

// Default is the area new clients join.
func (g *AreaGraph) Default() *Area {
	return g.areas[0]
}

// ByID returns the area with the given id.
func (g *AreaGraph) ByID(id int) (*Area, error) {
	if id < 0 || id >= len(g.areas) {
		return nil, &WorldError{Kind: "area", Ref: strconv.Itoa(id)}
	}
	return g.areas[id], nil
}

// ByName returns the area with the given name.
func (g *AreaGraph) ByName(name string) (*Area, error) {
	a, ok := g.byName[name]
	if !ok {
		return nil, &WorldError{Kind: "area", Ref: strconv.Quote(name)}
	}
	return a, nil
}
