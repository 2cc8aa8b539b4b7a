package services

import (
	"context"
	"fmt"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/mailer"
	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispatcher pairs each tracker event with an in-app notification and a
// templated email. Neither failing stops the caller.
type Dispatcher struct {
	notifications *NotificationService
	emails        EmailQueue
	frontendURL   string
}

func NewDispatcher(notifications *NotificationService, emails EmailQueue, frontendURL string) *Dispatcher {
	return &Dispatcher{notifications: notifications, emails: emails, frontendURL: frontendURL}
}

func (d *Dispatcher) link(path string) string {
	return d.frontendURL + path
}

func (d *Dispatcher) enqueue(email mailer.Email, err error) {
	if err != nil {
		logging.Logger.Errorf("Event ID: RENDER_EMAIL_FAILED, Description: Could not render email for '%s': %v", email.To, err)
		return
	}
	if email.To == "" {
		logging.Logger.Warnf("Event ID: EMAIL_NO_RECIPIENT, Description: Skipping email '%s' with no recipient address", email.Subject)
		return
	}
	d.emails.Enqueue(email)
}

func bugRef(bug *models.Bug) *primitive.ObjectID {
	id := bug.ID
	return &id
}

func orMedium(p models.Priority) models.Priority {
	if p == "" {
		return models.PriorityMedium
	}
	return p
}

// BugAssigned always records the notification; sendEmail only gates the email.
func (d *Dispatcher) BugAssigned(ctx context.Context, bug *models.Bug, developer *models.User, projectName string, sendEmail bool) {
	d.notifications.Create(ctx, developer.ID, models.NotificationInput{
		Title:      "New Bug Assigned",
		Message:    fmt.Sprintf("You have been assigned the bug: %s", bug.Title),
		Type:       models.NotificationBugAssigned,
		RelatedBug: bugRef(bug),
		ActionURL:  "/developer/dashboard",
		Priority:   orMedium(bug.Priority),
	})
	if !sendEmail {
		logging.Logger.Infof("Event ID: ASSIGN_EMAIL_SUPPRESSED, Description: Assignment email for bug %s suppressed by caller", bug.ID.Hex())
		return
	}
	d.enqueue(mailer.BugAssignment(mailer.BugEmail{
		To:          developer.Email,
		Name:        developer.Name,
		BugTitle:    bug.Title,
		ProjectName: projectName,
		Link:        d.link("/bugs/" + bug.ID.Hex()),
	}))
}

func (d *Dispatcher) BugResolved(ctx context.Context, bug *models.Bug, reporter *models.User, resolvedBy, projectName string) {
	d.notifications.Create(ctx, reporter.ID, models.NotificationInput{
		Title:      "Bug Resolved",
		Message:    fmt.Sprintf("Your bug \"%s\" has been resolved by %s", bug.Title, resolvedBy),
		Type:       models.NotificationBugResolved,
		RelatedBug: bugRef(bug),
		ActionURL:  "/tester/dashboard",
		Priority:   models.PriorityMedium,
	})
	d.enqueue(mailer.BugResolved(mailer.BugEmail{
		To:          reporter.Email,
		Name:        reporter.Name,
		BugTitle:    bug.Title,
		ProjectName: projectName,
		ActorName:   resolvedBy,
		Link:        d.link("/tester/dashboard"),
	}))
}

func (d *Dispatcher) BugCreated(ctx context.Context, bug *models.Bug, manager *models.User, reporterName, projectName string) {
	d.notifications.Create(ctx, manager.ID, models.NotificationInput{
		Title:      "New Bug Reported",
		Message:    fmt.Sprintf("New bug \"%s\" reported by %s in project %s", bug.Title, reporterName, projectName),
		Type:       models.NotificationBugCreated,
		RelatedBug: bugRef(bug),
		ActionURL:  "/manager/bugs",
		Priority:   orMedium(bug.Priority),
	})
	d.enqueue(mailer.BugCreated(mailer.BugEmail{
		To:          manager.Email,
		Name:        manager.Name,
		BugTitle:    bug.Title,
		ProjectName: projectName,
		ActorName:   reporterName,
		Priority:    string(bug.Priority),
		Link:        d.link("/manager/bugs"),
	}))
}

func (d *Dispatcher) BugReopened(ctx context.Context, bug *models.Bug, developer *models.User, testerName, projectName string) {
	d.notifications.Create(ctx, developer.ID, models.NotificationInput{
		Title:      "Bug Reopened",
		Message:    fmt.Sprintf("Bug \"%s\" has been reopened by %s", bug.Title, testerName),
		Type:       models.NotificationBugReopened,
		RelatedBug: bugRef(bug),
		ActionURL:  "/developer/dashboard",
		Priority:   models.PriorityHigh,
	})
	d.enqueue(mailer.BugReopened(mailer.BugEmail{
		To:          developer.Email,
		Name:        developer.Name,
		BugTitle:    bug.Title,
		ProjectName: projectName,
		ActorName:   testerName,
		Link:        d.link("/developer/dashboard"),
	}))
}

func (d *Dispatcher) ProjectAssigned(ctx context.Context, project *models.Project, member *models.User, role models.Role, sendEmail bool) {
	projectID := project.ID
	d.notifications.Create(ctx, member.ID, models.NotificationInput{
		Title:          "New Project Assignment",
		Message:        fmt.Sprintf("You have been added to project \"%s\" as %s", project.Name, role),
		Type:           models.NotificationProjectAssigned,
		RelatedProject: &projectID,
		ActionURL:      "/projects/" + project.ID.Hex(),
		Priority:       orMedium(project.Priority),
	})
	if !sendEmail {
		return
	}
	d.enqueue(mailer.ProjectAssignment(mailer.ProjectEmail{
		To:          member.Email,
		Name:        member.Name,
		ProjectName: project.Name,
		Role:        string(role),
		Link:        d.link("/projects/" + project.ID.Hex()),
	}))
}

// PasswordReset emails a generated password. It has no in-app counterpart.
func (d *Dispatcher) PasswordReset(user *models.User, password string) {
	d.enqueue(mailer.PasswordReset(mailer.PasswordResetEmail{
		To:       user.Email,
		Name:     user.Name,
		Password: password,
		Link:     d.link("/login"),
	}))
}
