package file

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// File is one node of a user's tree. Folders never carry a LocalPath;
// files and images point at their bytes under the storage root.
type File struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Type      FileType           `json:"type" bson:"type"`
	IsPublic  bool               `json:"isPublic" bson:"isPublic"`
	ParentID  ParentRef          `json:"parentId" bson:"parentId"`
	LocalPath string             `json:"-" bson:"localPath,omitempty"`
}
