package extrude

// PolygonSet records the nesting relation between the subpaths of
// one drawing element: which subpaths are nested in which.
//
// Every nested subpath is attached to a single top level subpath,
// and ends up in its points/paths group; the even odd fill rule then
// alternates material and holes down the chain, so a hole carrying a
// further island renders correctly. When a subpath is directly
// enclosed by several siblings, the smallest one wins.
type PolygonSet struct {
	Subpaths []Subpath

	// Contains[i] lists, in index order, the subpaths attached to
	// the top level subpath i, direct holes and deeper descendants
	// alike. ContainedBy[i] holds the top level subpath i is
	// attached to, or -1 when i is itself top level.
	Contains    [][]int
	ContainedBy []int
}

// IsTopLevel reports whether subpath i is not nested in another one.
func (s *PolygonSet) IsTopLevel(i int) bool { return s.ContainedBy[i] == -1 }

// ResolveContainment computes the nesting relation of the subpaths.
// Each unordered pair is tested once; a bounding box check rejects
// most pairs before any point in polygon test runs.
func ResolveContainment(subpaths []Subpath) *PolygonSet {
	n := len(subpaths)
	set := &PolygonSet{
		Subpaths:    subpaths,
		Contains:    make([][]int, n),
		ContainedBy: make([]int, n),
	}

	// parent[i] is the smallest subpath directly enclosing i
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// mutual containment cannot happen with the strict
			// vertex test, so the first hit settles the pair
			if subpaths[i].encloses(subpaths[j]) {
				if parent[j] == -1 || subpaths[i].area() < subpaths[parent[j]].area() {
					parent[j] = i
				}
			} else if subpaths[j].encloses(subpaths[i]) {
				if parent[i] == -1 || subpaths[j].area() < subpaths[parent[i]].area() {
					parent[i] = j
				}
			}
		}
	}

	// attach each nested subpath to its outermost ancestor
	for i := 0; i < n; i++ {
		root := parent[i]
		if root == -1 {
			set.ContainedBy[i] = -1
			continue
		}
		for parent[root] != -1 {
			root = parent[root]
		}
		set.ContainedBy[i] = root
		set.Contains[root] = append(set.Contains[root], i)
	}
	return set
}
