package model

type Clinic struct {
	Base
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Address      string `db:"address" json:"address"`
	Phone        string `db:"phone" json:"phone"`
	Status       string `db:"status" json:"status"`
}
