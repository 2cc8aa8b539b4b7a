package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectTesting    ProjectStatus = "testing"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectTesting, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type TeamMember struct {
	User primitive.ObjectID `bson:"user" json:"user"`
	Role Role               `bson:"role" json:"role"`
}

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Manager     primitive.ObjectID `bson:"manager" json:"manager"`
	Team        []TeamMember       `bson:"team" json:"team"`
	Status      ProjectStatus      `bson:"status" json:"status"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Progress    int                `bson:"progress" json:"progress"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether userID is on the project's team.
func (p *Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Team {
		if m.User == userID {
			return true
		}
	}
	return false
}
