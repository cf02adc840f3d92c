// Package library resolves the books query.
package library

// Book is a catalog entry.
type Book struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolver answers book queries from a fixed catalog.
type Resolver struct{}

// NewResolver returns a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Books returns the catalog. Each call returns a fresh slice.
func (r *Resolver) Books() []Book {
	return []Book{
		{ID: "1", Name: "name1"},
		{ID: "2", Name: "name2"},
	}
}

// Book returns the book with the given id, or false if there is none.
func (r *Resolver) Book(id string) (Book, bool) {
	for _, b := range r.Books() {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}
