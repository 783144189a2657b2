package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogPost is a single blog post document
// Collection: blogs
type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required,max=100"`
	Author      string             `bson:"author" json:"author" validate:"required,max=100"`
	Description string             `bson:"description" json:"description" validate:"required,max=1000"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	Revision    int64              `bson:"revision" json:"revision"`
}

// Validate checks the client-supplied fields of the post.
func (b *BlogPost) Validate() error {
	return translate(validate.Struct(b))
}
