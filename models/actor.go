package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  Role
}

func ActorFromUser(u *User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}
