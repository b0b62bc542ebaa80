package models

import "time"

// User is the profile document stored at users/{uid}. Field names are part
// of the wire contract shared with the mobile clients.
type User struct {
	Name       string    `json:"name" firestore:"name" bson:"name"`
	Email      string    `json:"email" firestore:"email" bson:"email"`
	Phone      string    `json:"phone,omitempty" firestore:"phone,omitempty" bson:"phone,omitempty"`
	Gender     string    `json:"gender,omitempty" firestore:"gender,omitempty" bson:"gender,omitempty"`
	IsAdmin    bool      `json:"isAdmin" firestore:"isAdmin" bson:"isAdmin"`
	IsDisabled bool      `json:"isDisabled" firestore:"isDisabled" bson:"isDisabled"`
	CreatedAt  time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// AuthState is the locally mirrored sign-in record (cache keys "authUser"
// and "adminAuth").
type AuthState struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
}
