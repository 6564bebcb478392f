package model

// Permission describes one allowed operation as an (action, entity, access)
// triple, e.g. (read, widget, any). Entity is free-form; action and access
// are constrained by the multitenancy package enums.
type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Action      string `json:"action" gorm:"type:varchar(10);not null;uniqueIndex:idx_permissions_action_entity_access,priority:1"`
	Entity      string `json:"entity" gorm:"type:varchar(100);not null;uniqueIndex:idx_permissions_action_entity_access,priority:2"`
	Access      string `json:"access" gorm:"type:varchar(10);not null;uniqueIndex:idx_permissions_action_entity_access,priority:3"`
	Description string `json:"description" gorm:"type:varchar(1000)"`
}
