package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// The views below are the records as the API returns them, with references
// replaced by summaries of the records they point at. A reference that no
// longer resolves is reported with its id only.

type ProjectSummary struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name,omitempty"`
}

type BugView struct {
	Bug
	Project    ProjectSummary `json:"project"`
	Reporter   UserSummary    `json:"reporter"`
	AssignedTo *UserSummary   `json:"assignedTo,omitempty"`
}

type TeamMemberView struct {
	User UserSummary `json:"user"`
	Role Role        `json:"role"`
}

type ProjectView struct {
	Project
	Manager UserSummary      `json:"manager"`
	Team    []TeamMemberView `json:"team"`
}

type CommentView struct {
	Comment
	User UserSummary `json:"user"`
}

type MessageView struct {
	Message
	Sender   UserSummary `json:"sender"`
	Receiver UserSummary `json:"receiver"`
}
