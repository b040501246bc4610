// Package depgraph checks task dependency edges for cycles.
package depgraph

import "github.com/nhle/momentum/internal/model"

// Graph maps a task ID to the IDs it depends on.
type Graph map[string][]string

// FromTasks builds the dependency graph of tasks.
func FromTasks(tasks []model.Task) Graph {
	g := make(Graph, len(tasks))
	for _, t := range tasks {
		g[t.ID] = append([]string(nil), t.Dependencies...)
	}
	return g
}

// Reachable reports whether to can be reached from from by following
// dependency edges. A node reaches itself.
func (g Graph) Reachable(from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		for _, next := range g[n] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// WouldCycle reports whether making target depend on source closes a
// cycle, including the self-loop target == source.
func (g Graph) WouldCycle(target, source string) bool {
	return g.Reachable(source, target)
}

// HasCycle reports whether the graph already contains a cycle.
func (g Graph) HasCycle() bool {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g))

	var visit func(n string) bool
	visit = func(n string) bool {
		switch state[n] {
		case visiting:
			return true
		case done:
			return false
		}
		state[n] = visiting
		for _, next := range g[n] {
			if visit(next) {
				return true
			}
		}
		state[n] = done
		return false
	}

	for n := range g {
		if visit(n) {
			return true
		}
	}
	return false
}
