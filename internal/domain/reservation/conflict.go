package reservation

// FindConflict returns the first existing reservation whose interval
// overlaps candidate. Callers pass reservations of a single resource.
func FindConflict(existing []*Reservation, candidate Interval) (*Reservation, bool) {
	for _, r := range existing {
		if Overlaps(r.interval, candidate) {
			return r, true
		}
	}
	return nil, false
}
