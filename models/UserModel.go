package models

type UserModel struct {
	BaseModel
	Username string `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Password string `json:"-" gorm:"size:150;not null"`
}

func (UserModel) TableName() string {
	return "users"
}
