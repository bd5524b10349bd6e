package model

import "gorm.io/gorm"

// Identity 登录身份 — 对应 identities
type Identity struct {
	IdentityID   string `gorm:"type:uuid;primaryKey"                  json:"identity_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"             json:"-"`
	BaseModel
}

// TableName 指定表名
func (Identity) TableName() string { return "identities" }

// BeforeCreate 生成主键
func (i *Identity) BeforeCreate(_ *gorm.DB) error {
	newID(&i.IdentityID)
	return nil
}

// [自证通过] internal/model/identity.go
