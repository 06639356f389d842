package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Permission{},
		&User{},
		&Profile{},
		&Author{},
		&Book{},
		&Library{},
		&Librarian{},
		&Tag{},
		&Post{},
		&Comment{},
	}
}
