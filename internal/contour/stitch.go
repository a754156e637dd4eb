package contour

import "github.com/paulmach/orb"

// stitcher joins segments sharing an end point into lines
type stitcher struct {
	// open lines by both of their end points
	ends map[orb.Point]*orb.LineString

	// every line started, in order; merged ones are nil
	all    []*orb.LineString
	merged map[*orb.LineString]int
}

func newStitcher() *stitcher {
	return &stitcher{
		ends:   map[orb.Point]*orb.LineString{},
		merged: map[*orb.LineString]int{},
	}
}

func (s *stitcher) add(a, b orb.Point) {
	if a.Equal(b) {
		return
	}

	la, lb := s.ends[a], s.ends[b]

	switch {
	case la == nil && lb == nil:
		l := orb.LineString{a, b}
		s.ends[a] = &l
		s.ends[b] = &l
		s.merged[&l] = len(s.all)
		s.all = append(s.all, &l)

	case la != nil && lb == nil:
		delete(s.ends, a)
		appendAt(la, a, b)
		s.ends[b] = la

	case la == nil && lb != nil:
		delete(s.ends, b)
		appendAt(lb, b, a)
		s.ends[a] = lb

	case la == lb:
		// the segment closes a ring
		delete(s.ends, a)
		delete(s.ends, b)
		appendAt(la, a, b)

	default:
		delete(s.ends, a)
		delete(s.ends, b)

		// la ends with a, lb starts with b
		if (*la)[0].Equal(a) {
			la.Reverse()
		}
		if !(*lb)[0].Equal(b) {
			lb.Reverse()
		}
		*la = append(*la, *lb...)

		s.ends[(*la)[len(*la)-1]] = la
		s.all[s.merged[lb]] = nil
	}
}

// appendAt adds p next to the end point end of l
func appendAt(l *orb.LineString, end, p orb.Point) {
	if (*l)[0].Equal(end) {
		l.Reverse()
	}
	*l = append(*l, p)
}

// lines returns all lines in the order they were started
func (s *stitcher) lines() []orb.LineString {
	lines := []orb.LineString{}
	for _, l := range s.all {
		if l != nil {
			lines = append(lines, *l)
		}
	}
	return lines
}
