package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	AuthProvider string             `bson:"authProvider" json:"authProvider"`
	GoogleID     *string            `bson:"googleId,omitempty" json:"-"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	LastLogin int64 `bson:"lastLogin" json:"lastLogin"`
}

// UserWithStatus is the search-result shape: the stored user plus the
// viewer's computed relationship status.
type UserWithStatus struct {
	User         `bson:",inline"`
	FriendStatus string `bson:"-" json:"friendStatus"`
}

// UserProfile is the profile-page shape.
type UserProfile struct {
	User         `bson:",inline"`
	FriendStatus string `bson:"-" json:"friendStatus"`
	FriendsCount int64  `bson:"-" json:"friendsCount"`
}
