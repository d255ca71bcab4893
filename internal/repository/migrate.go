package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table this package
// owns. Used at startup and by repository tests running against sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&artistModel{},
		&albumModel{},
		&customAssetModel{},
		&enrichmentLogModel{},
	)
}
