package mcmodel

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID       int    `json:"id"`
	UUID     string `json:"uuid" gorm:"size:36"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;size:191"`
	IsAdmin  bool   `json:"is_admin"`
	ApiToken string `json:"-" gorm:"index;size:64"`
	Password string `json:"-"`

	// PlainPassword is only set from requests, it is hashed into Password on save.
	PlainPassword string    `json:"password,omitempty" gorm:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.UUID == "" {
		if u.UUID, err = uuid.GenerateUUID(); err != nil {
			return err
		}
	}

	if u.ApiToken == "" {
		if u.ApiToken, err = uuid.GenerateUUID(); err != nil {
			return err
		}
		u.ApiToken = strings.ReplaceAll(u.ApiToken, "-", "")
	}

	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Slug == "" {
		u.Slug = slug.Make(u.Name)
	}

	if u.PlainPassword == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.PlainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hash)
	u.PlainPassword = ""

	return nil
}

func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Filter narrows the users index with the search and admin params.
func (u User) Filter(db *gorm.DB, params map[string]string) *gorm.DB {
	if search := params["search"]; search != "" {
		like := "%" + search + "%"
		db = db.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	switch params["is_admin"] {
	case "1", "true":
		db = db.Where("is_admin = ?", true)
	case "0", "false":
		db = db.Where("is_admin = ?", false)
	}

	return db
}
