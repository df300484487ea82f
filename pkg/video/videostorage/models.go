package videostorage

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Model interface{}

var models = []Model{}

func init() {
	registerForAutomigration(&Frame{})
}

// Frame is one presented frame, stored PNG encoded.
type Frame struct {
	gorm.Model
	UUID   string
	Stream string `gorm:"index"`
	Taken  int64
	Width  int
	Height int
	PNG    []byte
}

func (f *Frame) BeforeCreate(tx *gorm.DB) error {
	f.UUID = uuid.NewString()
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

func registerForAutomigration(m Model) {
	models = append(models, m)
}
