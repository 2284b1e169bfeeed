package fsutil

import "iter"

// DefaultPageSize is used by Paginate when pageSize is not positive.
const DefaultPageSize = 1000

// Paginate groups the values of seq into pages of pageSize.
// The final page may be shorter. Values are pulled from seq as pages are consumed,
// so seq is never held in memory as a whole; each page is a fresh slice the caller may keep.
// Ranging over the result again ranges over seq again, so a single-use seq
// (a channel drain, a database cursor) yields its pages exactly once.
func Paginate[T any](seq iter.Seq[T], pageSize int) iter.Seq[[]T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return func(yield func([]T) bool) {
		page := make([]T, 0, pageSize)
		for v := range seq {
			page = append(page, v)
			if len(page) < pageSize {
				continue
			}
			if !yield(page) {
				return
			}
			page = make([]T, 0, pageSize)
		}
		if len(page) > 0 {
			yield(page)
		}
	}
}
