package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in-progress"
	BugResolved   BugStatus = "resolved"
	BugClosed     BugStatus = "closed"
	BugReopened   BugStatus = "reopened"
)

func (s BugStatus) Valid() bool {
	switch s {
	case BugOpen, BugInProgress, BugResolved, BugClosed, BugReopened:
		return true
	}
	return false
}

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
	SeverityBlocker  Severity = "blocker"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical, SeverityBlocker:
		return true
	}
	return false
}

type BugType string

const (
	TypeBug         BugType = "bug"
	TypeFeature     BugType = "feature"
	TypeEnhancement BugType = "enhancement"
	TypeTask        BugType = "task"
)

func (t BugType) Valid() bool {
	switch t {
	case TypeBug, TypeFeature, TypeEnhancement, TypeTask:
		return true
	}
	return false
}

type VerifyAction string

const (
	VerifyClose  VerifyAction = "close"
	VerifyReopen VerifyAction = "reopen"
)

type Bug struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title            string              `bson:"title" json:"title"`
	Description      string              `bson:"description" json:"description"`
	Project          primitive.ObjectID  `bson:"project" json:"project"`
	Reporter         primitive.ObjectID  `bson:"reporter" json:"reporter"`
	AssignedTo       *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Status           BugStatus           `bson:"status" json:"status"`
	Priority         Priority            `bson:"priority" json:"priority"`
	Severity         Severity            `bson:"severity" json:"severity"`
	Type             BugType             `bson:"type" json:"type"`
	Screenshots      []string            `bson:"screenshots" json:"screenshots"`
	StepsToReproduce string              `bson:"stepsToReproduce,omitempty" json:"stepsToReproduce,omitempty"`
	Environment      string              `bson:"environment,omitempty" json:"environment,omitempty"`
	ResolvedAt       *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ClosedAt         *time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// GroupCount is one row of a grouped count, keyed the way the client reads it.
type GroupCount struct {
	Key   string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

type BugStats struct {
	StatusStats   []GroupCount `json:"statusStats"`
	PriorityStats []GroupCount `json:"priorityStats"`
}
