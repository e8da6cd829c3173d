package util

const DefaultPageSize = 10

// Paginate clamps page/size and returns the offset/limit pair for a query.
func Paginate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
