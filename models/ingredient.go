package models

type Ingredient struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:200;not null;uniqueIndex:uniq_ingredient_name_unit"`
	MeasurementUnit string `gorm:"size:10;not null;uniqueIndex:uniq_ingredient_name_unit"`
}
