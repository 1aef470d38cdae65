// Package graph derives the co-authorship network shown on the analytics
// page. Layout is left to the rendering library.
package graph

import (
	"sort"
	"strings"
	"unicode"

	"github.com/digital-finance/labsite/internal/catalog"
)

// Node groups.
const (
	GroupTeam         = 1
	GroupCollaborator = 2
)

// Node is one author.
type Node struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Group        int    `json:"group"`
	Publications int    `json:"publications"`
}

// Link connects two authors; Weight counts their shared publications.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Graph is the node-link data consumed by the graph view.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Build collects every author of pubs and links authors that published
// together. Authors matching a team name are placed in GroupTeam.
// "Osterrieder, J." and "J. Osterrieder" are the same author.
func Build(pubs []catalog.Publication, team []string) Graph {
	members := make(map[string]bool, len(team))
	for _, name := range team {
		if k := Key(name); k != "" {
			members[k] = true
		}
	}

	nodes := make(map[string]*Node)
	weights := make(map[[2]string]int)
	for _, p := range pubs {
		names, _ := p.AuthorNames()
		ids := make([]string, 0, len(names))
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			id := Key(name)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)

			n, ok := nodes[id]
			if !ok {
				n = &Node{ID: id, Name: DisplayName(name), Group: GroupCollaborator}
				if members[id] {
					n.Group = GroupTeam
				}
				nodes[id] = n
			}
			n.Publications++
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if b < a {
					a, b = b, a
				}
				weights[[2]string{a, b}]++
			}
		}
	}

	g := Graph{
		Nodes: make([]Node, 0, len(nodes)),
		Links: make([]Link, 0, len(weights)),
	}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, *n)
	}
	sort.Slice(g.Nodes, func(i, j int) bool {
		if g.Nodes[i].Group != g.Nodes[j].Group {
			return g.Nodes[i].Group < g.Nodes[j].Group
		}
		return g.Nodes[i].ID < g.Nodes[j].ID
	})
	for pair, w := range weights {
		g.Links = append(g.Links, Link{Source: pair[0], Target: pair[1], Weight: w})
	}
	sort.Slice(g.Links, func(i, j int) bool {
		if g.Links[i].Source != g.Links[j].Source {
			return g.Links[i].Source < g.Links[j].Source
		}
		return g.Links[i].Target < g.Links[j].Target
	})
	return g
}

// Team returns the team nodes.
func (g Graph) Team() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Group == GroupTeam {
			out = append(out, n)
		}
	}
	return out
}

// DisplayName turns "Last, F. G." into "F. G. Last". Other forms are
// returned trimmed.
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return strings.TrimSpace(last)
	}
	return first + " " + strings.TrimSpace(last)
}

// Key identifies an author by lowercase surname and first initial, e.g.
// "osterrieder-j".
func Key(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var surname, given string
	if last, first, ok := strings.Cut(name, ","); ok {
		surname, given = last, first
	} else {
		fields := strings.Fields(name)
		surname = fields[len(fields)-1]
		given = strings.Join(fields[:len(fields)-1], " ")
	}

	surname = strings.ToLower(strings.TrimSpace(surname))
	if surname == "" {
		return ""
	}
	for _, r := range given {
		if unicode.IsLetter(r) {
			return surname + "-" + string(unicode.ToLower(r))
		}
	}
	return surname
}
