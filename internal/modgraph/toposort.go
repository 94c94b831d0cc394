package modgraph

import (
	"fmt"
	"sort"
)

// topoSort returns node indices in build order.
//
// Nodes are by index; depsFn(i) yields indices that must be built before i.
// When multiple nodes are ready the smallest index is picked, so declaration
// order breaks ties. If a cycle exists the returned order is shorter than n
// and the nodes left out are exactly those on or behind a cycle.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	return order, nil
}

// cycleMembers returns, in ascending index order, every node that lies on a
// cycle: members of strongly connected components larger than one, and nodes
// that depend on themselves.
func cycleMembers(n int, depsFn func(i int) []int) []int {
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)

	for i := range index {
		index[i] = -1
	}

	var (
		stack   []int
		next    int
		members []int
	)

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = next
		low[v] = next
		next++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range depsFn(v) {
			if index[w] == -1 {
				strongConnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}

		var component []int

		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false

			component = append(component, w)
			if w == v {
				break
			}
		}

		if len(component) > 1 || dependsOnSelf(v, depsFn) {
			members = append(members, component...)
		}
	}

	for v := range n {
		if index[v] == -1 {
			strongConnect(v)
		}
	}

	sort.Ints(members)

	return members
}

func dependsOnSelf(v int, depsFn func(i int) []int) bool {
	for _, d := range depsFn(v) {
		if d == v {
			return true
		}
	}

	return false
}
