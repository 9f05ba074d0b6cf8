package ecs

import "strconv"

// Entity is an opaque scene handle. Handles are handed out in increasing
// order starting at 1 and are never recycled; 0 never names a live entity.
type Entity uint32

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e > 0
}

func (e Entity) index() int {
	return int(e) - 1
}
