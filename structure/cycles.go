package structure

import (
	"fmt"

	"pdfcheck/scanner"
)

// node colors for the iterative walk
const (
	colorUnvisited = 0
	colorOnPath    = 1
	colorDone      = 2
)

type frame struct {
	node int
	next int // index of the next outgoing edge to follow
}

// checkCycles builds the directed graph of hierarchical reference edges and
// walks it iteratively with an explicit stack, so an adversarially deep or
// wide graph cannot overflow the call stack. A single color map is carried
// across the whole pass: every node and edge is examined at most once, which
// bounds the work at O(nodes + edges). An edge back onto the current path is
// a cycle and yields one finding carrying that path.
func (v *Validator) checkCycles(res *scanner.Result, index map[int]*scanner.ObjectRecord, add func(Finding)) {
	adj := make(map[int][]int, len(res.Objects))
	for i := range res.Objects {
		o := &res.Objects[i]
		for _, to := range hierarchicalEdges(o.Body) {
			if _, exists := index[to]; !exists {
				continue // dangling edges are the widget check's concern
			}
			adj[o.Num] = append(adj[o.Num], to)
		}
	}

	color := make(map[int]int, len(res.Objects))
	// roots in encounter order keeps findings deterministic
	for i := range res.Objects {
		start := res.Objects[i].Num
		if color[start] != colorUnvisited {
			continue
		}
		stack := []frame{{node: start}}
		path := []int{start}
		color[start] = colorOnPath
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			edges := adj[f.node]
			if f.next >= len(edges) {
				color[f.node] = colorDone
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}
			to := edges[f.next]
			f.next++
			switch color[to] {
			case colorOnPath:
				cycle := append(append([]int(nil), path...), to)
				add(Finding{
					Kind:   KindCircularReference,
					Object: f.node,
					Ref:    to,
					Path:   cycle,
					Detail: fmt.Sprintf("reference chain %v returns to object %d", cycle, to),
				})
			case colorUnvisited:
				color[to] = colorOnPath
				stack = append(stack, frame{node: to})
				path = append(path, to)
			}
		}
	}
}
