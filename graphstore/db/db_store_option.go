package db

import "gorm.io/gorm"

type StoreOption func(*Store)

func WithDB(db *gorm.DB) StoreOption {
	return func(s *Store) {
		s.db = db
	}
}
