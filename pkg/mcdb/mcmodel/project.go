package mcmodel

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          int        `json:"id"`
	UUID        string     `json:"uuid" gorm:"size:36"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     int        `json:"owner_id"`
	Owner       *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	FileCount   int        `json:"file_count"`
	IsArchived  bool       `json:"is_archived"`
	ArchivedAt  *time.Time `json:"archived_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.UUID == "" {
		if p.UUID, err = uuid.GenerateUUID(); err != nil {
			return err
		}
	}

	if p.Slug == "" {
		p.Slug = slug.Make(p.Name + " " + p.UUID[:8])
	}

	return nil
}

func (p Project) PerPage() int {
	return 20
}

// Filter narrows the projects index by name, owner and archived state.
func (p Project) Filter(db *gorm.DB, params map[string]string) *gorm.DB {
	if name := params["name"]; name != "" {
		db = db.Where("name LIKE ?", "%"+name+"%")
	}

	if owner := params["owner_id"]; owner != "" {
		db = db.Where("owner_id = ?", owner)
	}

	switch params["is_archived"] {
	case "1", "true":
		db = db.Where("is_archived = ?", true)
	case "0", "false":
		db = db.Where("is_archived = ?", false)
	}

	return db
}
