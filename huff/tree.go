package huff

// treeNode is one slot of the construction arena. Leaves carry sym >= 0;
// internal nodes carry -1 and two children. The tree only lives long enough
// to extract code lengths.
type treeNode struct {
	count uint32
	sym   int
	left  int
	right int
}

// buildCodeLengths derives a code length for every symbol with a nonzero
// frequency by repeatedly merging the two smallest counts. Ties are broken by
// the first slot found in scan order, which keeps the result deterministic.
func buildCodeLengths(freq *[alphabetSize]uint32, lens *[alphabetSize]uint8) {
	nodes := make([]treeNode, 0, 2*alphabetSize-1)
	active := make([]int, 0, alphabetSize)
	for s := range alphabetSize {
		if freq[s] == 0 {
			continue
		}
		nodes = append(nodes, treeNode{count: freq[s], sym: s, left: -1, right: -1})
		active = append(active, len(nodes)-1)
	}

	switch len(active) {
	case 0:
		return
	case 1:
		lens[nodes[active[0]].sym] = 1

		return
	}

	for len(active) > 1 {
		a := 0
		for j := 1; j < len(active); j++ {
			if nodes[active[j]].count < nodes[active[a]].count {
				a = j
			}
		}
		b := -1
		for j := range active {
			if j == a {
				continue
			}
			if b < 0 || nodes[active[j]].count < nodes[active[b]].count {
				b = j
			}
		}

		nodes = append(nodes, treeNode{
			count: nodes[active[a]].count + nodes[active[b]].count,
			sym:   -1,
			left:  active[a],
			right: active[b],
		})

		// Replace the lower slot with the merged node and recycle the other
		// slot from the tail of the active list.
		lo, hi := min(a, b), max(a, b)
		active[lo] = len(nodes) - 1
		active[hi] = active[len(active)-1]
		active = active[:len(active)-1]
	}

	recordDepths(nodes, active[0], 0, lens)
}

func recordDepths(nodes []treeNode, idx, depth int, lens *[alphabetSize]uint8) {
	nd := nodes[idx]
	if nd.sym >= 0 {
		lens[nd.sym] = uint8(depth) //nolint:gosec

		return
	}
	recordDepths(nodes, nd.left, depth+1, lens)
	recordDepths(nodes, nd.right, depth+1, lens)
}

// limitCodeLengths rebalances code lengths so none exceeds MaxCodeLen.
//
// Each step moves one of the two deepest leaves next to the current shortest
// code (both become shortest+1) and promotes the other deepest leaf one
// level. The three length changes sum to zero in Kraft terms, so a table that
// covered the code space exactly still does afterwards. Every step strictly
// shrinks the excess above the bound, so the loop converges.
func limitCodeLengths(lens *[alphabetSize]uint8) {
	for {
		longest := uint8(0)
		for s := range alphabetSize {
			if lens[s] > longest {
				longest = lens[s]
			}
		}
		if longest <= MaxCodeLen {
			return
		}

		a, b := -1, -1
		for s := range alphabetSize {
			if lens[s] != longest {
				continue
			}
			if a < 0 {
				a = s
			} else {
				b = s

				break
			}
		}

		donor := -1
		for s := range alphabetSize {
			if lens[s] == 0 || lens[s] >= MaxCodeLen {
				continue
			}
			if donor < 0 || lens[s] < lens[donor] {
				donor = s
			}
		}

		lens[donor]++
		lens[a] = lens[donor]
		lens[b] = longest - 1
	}
}
